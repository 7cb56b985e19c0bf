package super

import (
	"github.com/tchajed/goose/machine/disk"
	"github.com/tchajed/marshal"

	"github.com/mit-pdos/simplefs/common"
)

// FsSuper describes the on-disk layout of a volume: block 0 is the
// superblock, blocks [1, NInodeBlocks] hold the inode table, and the
// rest of the device is the data region.
type FsSuper struct {
	Magic        uint32
	NBlocks      uint64
	NInodeBlocks uint64
	NInodes      uint64
}

// MkFsSuper computes the layout for a freshly formatted volume of
// nblocks blocks: a tenth of the device (rounded down) becomes inode
// table.
func MkFsSuper(nblocks uint64) *FsSuper {
	ninodeblocks := nblocks / 10
	return &FsSuper{
		Magic:        common.MAGIC,
		NBlocks:      nblocks,
		NInodeBlocks: ninodeblocks,
		NInodes:      ninodeblocks * common.INODEBLK,
	}
}

// Decode reads a superblock out of blk. The caller checks Valid.
func Decode(blk disk.Block) *FsSuper {
	dec := marshal.NewDec(blk)
	return &FsSuper{
		Magic:        dec.GetInt32(),
		NBlocks:      uint64(dec.GetInt32()),
		NInodeBlocks: uint64(dec.GetInt32()),
		NInodes:      uint64(dec.GetInt32()),
	}
}

func (sb *FsSuper) Encode() disk.Block {
	enc := marshal.NewEnc(disk.BlockSize)
	enc.PutInt32(sb.Magic)
	enc.PutInt32(uint32(sb.NBlocks))
	enc.PutInt32(uint32(sb.NInodeBlocks))
	enc.PutInt32(uint32(sb.NInodes))
	return enc.Finish()
}

// Valid reports whether the magic value identifies a formatted volume.
func (sb *FsSuper) Valid() bool {
	return sb.Magic == common.MAGIC
}

// InodeStart returns the first block of the inode table.
func (sb *FsSuper) InodeStart() common.Bnum {
	return 1
}

// DataStart returns the first block of the data region.
func (sb *FsSuper) DataStart() common.Bnum {
	return sb.InodeStart() + sb.NInodeBlocks
}

// NDataBlocks returns the size of the data region in blocks.
func (sb *FsSuper) NDataBlocks() uint64 {
	return sb.NBlocks - sb.NInodeBlocks - 1
}

// InRange reports whether inum names an assignable inode slot.
func (sb *FsSuper) InRange(inum common.Inum) bool {
	return inum >= 1 && uint64(inum) < sb.NInodes
}

// Inum2Blk computes the inode-table block holding inum.
func (sb *FsSuper) Inum2Blk(inum common.Inum) common.Bnum {
	return sb.InodeStart() + uint64(inum)/common.INODEBLK
}

// Inum2Off computes the byte offset of inum inside its table block.
func (sb *FsSuper) Inum2Off(inum common.Inum) uint64 {
	return (uint64(inum) % common.INODEBLK) * common.INODESZ
}
