package simplefs

import (
	"github.com/tchajed/goose/machine/disk"

	"github.com/mit-pdos/simplefs/alloc"
	"github.com/mit-pdos/simplefs/common"
	"github.com/mit-pdos/simplefs/inode"
	"github.com/mit-pdos/simplefs/util"
)

// Defrag rewrites the inode table and data region as dense contiguous
// structures: live inodes are renumbered 1..N in traversal order and
// their blocks move to the lowest positions of the data region, in
// inumber order, direct blocks first, then indirect-addressed blocks,
// then the rewritten indirect block itself.
//
// Inumbers do NOT survive defragmentation: a file's identity after
// compaction is its position in the traversal, not its old inumber.
// Callers holding inumbers must re-enumerate the table afterwards.
//
// The rewrite stages full in-memory mirrors of both regions and then
// writes them back wholesale. There is no partial-failure recovery:
// if the process dies between the first and last device write the
// volume is left in a mixed state.
func (fs *Fs) Defrag() bool {
	if !fs.mounted {
		return false
	}
	sb := fs.sb
	dataStart := sb.DataStart()

	scratchTable := make([]disk.Block, sb.NInodeBlocks)
	for i := range scratchTable {
		scratchTable[i] = make(disk.Block, disk.BlockSize)
	}
	scratchData := make([]disk.Block, sb.NDataBlocks())
	for i := range scratchData {
		scratchData[i] = make(disk.Block, disk.BlockSize)
	}

	nextInum := common.Inum(1)
	var nextData uint64

	c := inode.NewCursor(fs.d, sb, 1)
	for {
		inum, ip, ok := c.Next()
		if !ok {
			break
		}
		if !fs.ibmap.Test(uint64(inum)) {
			continue
		}

		ndirect := ip.NDirect()
		nindirect := ip.NIndirect()
		for i := uint64(0); i < ndirect; i++ {
			scratchData[nextData] = fs.d.Read(ip.Direct[i])
			ip.Direct[i] = dataStart + nextData
			nextData++
		}
		if nindirect > 0 {
			ind := fs.d.Read(ip.Indirect)
			for j := uint64(0); j < nindirect; j++ {
				scratchData[nextData] = fs.d.Read(inode.PtrGet(ind, j))
				inode.PtrPut(ind, j, dataStart+nextData)
				nextData++
			}
			scratchData[nextData] = ind
			ip.Indirect = dataStart + nextData
			nextData++
		}

		blkIdx := uint64(nextInum) / common.INODEBLK
		off := (uint64(nextInum) % common.INODEBLK) * common.INODESZ
		copy(scratchTable[blkIdx][off:off+common.INODESZ], ip.Encode())
		util.DPrintf(2, "Defrag: inode %d -> %d\n", inum, nextInum)
		nextInum++
	}

	ibmap := alloc.MkMaxAlloc(sb.NInodes)
	for i := common.Inum(1); i < nextInum; i++ {
		ibmap.MarkUsed(uint64(i))
	}
	fs.ibmap = ibmap
	for i := uint64(0); i < sb.NInodeBlocks; i++ {
		fs.d.Write(sb.InodeStart()+i, scratchTable[i])
	}

	bbmap := alloc.MkMaxAlloc(sb.NBlocks)
	for b := uint64(0); b <= sb.NInodeBlocks; b++ {
		bbmap.MarkUsed(b)
	}
	for i := uint64(0); i < nextData; i++ {
		bbmap.MarkUsed(dataStart + i)
	}
	fs.bbmap = bbmap
	for i := uint64(0); i < sb.NDataBlocks(); i++ {
		fs.d.Write(dataStart+i, scratchData[i])
	}

	util.DPrintf(1, "Defrag: %d inodes, %d data blocks\n", nextInum-1, nextData)
	return true
}
