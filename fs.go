// Package simplefs implements a single-volume flat filesystem on a
// fixed-block-size device. Files are addressed by integer inumbers;
// there are no directories, no journaling, and no internal locking;
// the layer assumes one caller at a time. Embedders that want
// concurrent access must serialize around the whole layer themselves.
package simplefs

import (
	"github.com/tchajed/goose/machine/disk"

	"github.com/mit-pdos/simplefs/alloc"
	"github.com/mit-pdos/simplefs/inode"
	"github.com/mit-pdos/simplefs/super"
	"github.com/mit-pdos/simplefs/util"
)

// Fs is a filesystem layered over one disk. The bitmaps are a derived
// cache of the on-disk state: they exist only between Mount and
// process exit and are rebuilt from the inode table on every mount,
// so Mount must precede every mutating operation.
type Fs struct {
	d       disk.Disk
	sb      *super.FsSuper
	ibmap   *alloc.Alloc // inode slots; bit set iff slot holds a valid inode
	bbmap   *alloc.Alloc // device blocks; bit set iff reachable or reserved
	mounted bool
}

func MkFs(d disk.Disk) *Fs {
	return &Fs{d: d}
}

// Format writes a fresh filesystem onto the disk: a superblock
// dedicating a tenth of the device to the inode table, and a fully
// invalidated table. The data region is left untouched. Formatting a
// mounted volume is refused, since the live bitmaps would no longer
// describe the layout underneath them.
func (fs *Fs) Format() bool {
	if fs.mounted {
		util.DPrintf(1, "Format: volume is mounted\n")
		return false
	}
	sb := super.MkFsSuper(fs.d.Size())
	fs.d.Write(0, sb.Encode())

	zero := make(disk.Block, disk.BlockSize)
	for i := uint64(0); i < sb.NInodeBlocks; i++ {
		fs.d.Write(sb.InodeStart()+i, zero)
	}
	util.DPrintf(1, "Format: %d blocks, %d inode blocks, %d inodes\n",
		sb.NBlocks, sb.NInodeBlocks, sb.NInodes)
	return true
}

// Mount checks the superblock and rebuilds both bitmaps by scanning
// the inode table: every valid inode takes its slot, and every block
// reachable from a valid inode (indirect block included) is marked
// used, as is the superblock/inode-table prefix. Fails if already
// mounted or the volume was never formatted.
func (fs *Fs) Mount() bool {
	if fs.mounted {
		util.DPrintf(1, "Mount: already mounted\n")
		return false
	}
	sb := super.Decode(fs.d.Read(0))
	if !sb.Valid() {
		util.DPrintf(1, "Mount: bad magic %#x\n", sb.Magic)
		return false
	}

	ibmap := alloc.MkMaxAlloc(sb.NInodes)
	bbmap := alloc.MkMaxAlloc(sb.NBlocks)
	for b := uint64(0); b <= sb.NInodeBlocks; b++ {
		bbmap.MarkUsed(b)
	}

	c := inode.NewCursor(fs.d, sb, 1)
	for {
		inum, ip, ok := c.Next()
		if !ok {
			break
		}
		if !ip.Valid {
			continue
		}
		ibmap.MarkUsed(uint64(inum))
		dc := inode.NewDataCursor(fs.d, ip)
		for {
			bn, ok := dc.Next()
			if !ok {
				break
			}
			bbmap.MarkUsed(bn)
		}
		if ip.NIndirect() > 0 {
			bbmap.MarkUsed(ip.Indirect)
		}
	}

	fs.sb = sb
	fs.ibmap = ibmap
	fs.bbmap = bbmap
	fs.mounted = true
	util.DPrintf(1, "Mount: %d free inodes, %d free blocks\n",
		ibmap.NumFree(), bbmap.NumFree())
	return true
}
