package inode

import (
	"github.com/tchajed/goose/machine/disk"

	"github.com/mit-pdos/simplefs/common"
	"github.com/mit-pdos/simplefs/super"
)

// Cursor walks the inode table in increasing inumber order, caching
// the last-read table block so that sequential traversal re-reads the
// device only on block boundaries. Each caller owns its cursor; there
// is no shared traversal state.
type Cursor struct {
	d     disk.Disk
	sb    *super.FsSuper
	next  common.Inum
	blkno common.Bnum
	blk   disk.Block
}

// NewCursor starts a traversal at inumber start. A start outside the
// table yields a cursor that is immediately exhausted.
func NewCursor(d disk.Disk, sb *super.FsSuper, start common.Inum) *Cursor {
	return &Cursor{
		d:    d,
		sb:   sb,
		next: start,
	}
}

// Next returns the next inumber and its record, or ok=false once the
// table is exhausted.
func (c *Cursor) Next() (common.Inum, *Inode, bool) {
	if uint64(c.next) >= c.sb.NInodes {
		return common.NULLINUM, nil, false
	}
	inum := c.next
	c.next++

	bn := c.sb.Inum2Blk(inum)
	if c.blk == nil || bn != c.blkno {
		c.blk = c.d.Read(bn)
		c.blkno = bn
	}
	off := c.sb.Inum2Off(inum)
	return inum, Decode(c.blk[off : off+common.INODESZ]), true
}

// DataCursor yields the physical block numbers addressed by one
// inode: direct pointers first, then entries of the indirect block,
// which is read lazily the first time the cursor crosses direct
// capacity. The walk is bounded by the inode's size.
type DataCursor struct {
	d      disk.Disk
	ip     *Inode
	idx    uint64
	nblks  uint64
	indblk disk.Block
}

// NewDataCursor starts a data walk over ip's blocks from position
// zero.
func NewDataCursor(d disk.Disk, ip *Inode) *DataCursor {
	return &DataCursor{
		d:     d,
		ip:    ip,
		nblks: ip.NBlocks(),
	}
}

// Next returns the next addressed block number, or ok=false when the
// running total covers the inode's size or pointer capacity runs out.
func (dc *DataCursor) Next() (common.Bnum, bool) {
	if dc.idx >= dc.nblks || dc.idx >= common.NDIRECT+common.NINDIRECT {
		return common.NULLBNUM, false
	}
	idx := dc.idx
	dc.idx++

	if idx < common.NDIRECT {
		return dc.ip.Direct[idx], true
	}
	if dc.indblk == nil {
		dc.indblk = dc.d.Read(dc.ip.Indirect)
	}
	return PtrGet(dc.indblk, idx-common.NDIRECT), true
}
