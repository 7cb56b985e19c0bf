package inode

import (
	"github.com/tchajed/goose/machine/disk"
	"github.com/tchajed/marshal"

	"github.com/mit-pdos/simplefs/common"
	"github.com/mit-pdos/simplefs/super"
	"github.com/mit-pdos/simplefs/util"
)

// Inode is the in-memory image of one 32-byte table record. Size
// alone determines how many of the pointers are meaningful:
// RoundUp(Size, BlockSize) blocks, direct pointers first, then
// entries of the indirect block.
type Inode struct {
	Valid    bool
	Size     uint64
	Direct   [common.NDIRECT]common.Bnum
	Indirect common.Bnum
}

// NBlocks returns how many data blocks the inode addresses. The
// indirect block itself is not counted.
func (ip *Inode) NBlocks() uint64 {
	return util.RoundUp(ip.Size, disk.BlockSize)
}

// NDirect returns how many of the addressed blocks sit behind direct
// pointers.
func (ip *Inode) NDirect() uint64 {
	return util.Min(ip.NBlocks(), common.NDIRECT)
}

// NIndirect returns how many of the addressed blocks sit behind the
// indirect block.
func (ip *Inode) NIndirect() uint64 {
	return ip.NBlocks() - ip.NDirect()
}

// Encode lays the inode out as a 32-byte record.
func (ip *Inode) Encode() []byte {
	enc := marshal.NewEnc(common.INODESZ)
	if ip.Valid {
		enc.PutInt32(1)
	} else {
		enc.PutInt32(0)
	}
	enc.PutInt32(uint32(ip.Size))
	for _, bn := range ip.Direct {
		enc.PutInt32(uint32(bn))
	}
	enc.PutInt32(uint32(ip.Indirect))
	return enc.Finish()
}

// Decode reads a 32-byte record back into an Inode.
func Decode(b []byte) *Inode {
	dec := marshal.NewDec(b)
	ip := &Inode{}
	ip.Valid = dec.GetInt32() != 0
	ip.Size = uint64(dec.GetInt32())
	for i := range ip.Direct {
		ip.Direct[i] = common.Bnum(dec.GetInt32())
	}
	ip.Indirect = common.Bnum(dec.GetInt32())
	return ip
}

// Get reads inum's record from the inode table. inum must be in
// range.
func Get(d disk.Disk, sb *super.FsSuper, inum common.Inum) *Inode {
	blk := d.Read(sb.Inum2Blk(inum))
	off := sb.Inum2Off(inum)
	return Decode(blk[off : off+common.INODESZ])
}

// Put writes ip into inum's table slot, persisting the containing
// block.
func Put(d disk.Disk, sb *super.FsSuper, inum common.Inum, ip *Inode) {
	bn := sb.Inum2Blk(inum)
	blk := d.Read(bn)
	off := sb.Inum2Off(inum)
	copy(blk[off:off+common.INODESZ], ip.Encode())
	d.Write(bn, blk)
}

// PtrGet reads the i-th entry of an indirect block.
func PtrGet(blk disk.Block, i uint64) common.Bnum {
	dec := marshal.NewDec(blk[i*common.PTRSZ : (i+1)*common.PTRSZ])
	return common.Bnum(dec.GetInt32())
}

// PtrPut overwrites the i-th entry of an indirect block.
func PtrPut(blk disk.Block, i uint64, bn common.Bnum) {
	enc := marshal.NewEnc(common.PTRSZ)
	enc.PutInt32(uint32(bn))
	copy(blk[i*common.PTRSZ:(i+1)*common.PTRSZ], enc.Finish())
}
