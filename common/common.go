package common

import (
	"github.com/tchajed/goose/machine/disk"
)

const (
	// MAGIC identifies a formatted volume in the superblock.
	MAGIC uint32 = 0xf0f03410

	NDIRECT   uint64 = 5                        // direct pointers per inode
	PTRSZ     uint64 = 4                        // on-disk size of a block pointer
	INODESZ   uint64 = 32                       // on-disk size of an inode record
	INODEBLK  uint64 = disk.BlockSize / INODESZ // inodes per table block
	NINDIRECT uint64 = disk.BlockSize / PTRSZ   // pointers per indirect block

	// MAXSZ is the largest file the pointer structure can address.
	MAXSZ uint64 = (NDIRECT + NINDIRECT) * disk.BlockSize
)

type Inum uint64
type Bnum = uint64

const (
	NULLINUM Inum = 0
	NULLBNUM Bnum = 0
)
