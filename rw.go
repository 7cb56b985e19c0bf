package simplefs

import (
	"github.com/tchajed/goose/machine/disk"

	"github.com/mit-pdos/simplefs/common"
	"github.com/mit-pdos/simplefs/inode"
	"github.com/mit-pdos/simplefs/util"
)

// WriteResult reports how much of a write landed on disk and why it
// stopped short, if it did. A short write with OutOfSpace set is a
// normal outcome on a full volume, not an error; the inode's size
// covers exactly the committed bytes.
type WriteResult struct {
	N          uint64
	OutOfSpace bool
}

// Read copies up to len(data) bytes of the file into data, starting
// at byte off. Reads never run past end of file: the result may be
// shorter than the buffer, and reading at off == size returns 0.
// Returns 0 when unmounted, out of range, invalid, or off > size.
func (fs *Fs) Read(inum common.Inum, data []byte, off uint64) uint64 {
	if !fs.mounted || !fs.sb.InRange(inum) {
		return 0
	}
	ip := inode.Get(fs.d, fs.sb, inum)
	if !ip.Valid || off > ip.Size {
		return 0
	}
	n := util.Min(uint64(len(data)), ip.Size-off)

	var indblk disk.Block
	var copied uint64
	idx := off / disk.BlockSize
	boff := off % disk.BlockSize
	for copied < n {
		var bn common.Bnum
		if idx < common.NDIRECT {
			bn = ip.Direct[idx]
		} else {
			if indblk == nil {
				indblk = fs.d.Read(ip.Indirect)
			}
			bn = inode.PtrGet(indblk, idx-common.NDIRECT)
		}
		blk := fs.d.Read(bn)
		c := util.Min(disk.BlockSize-boff, n-copied)
		copy(data[copied:copied+c], blk[boff:boff+c])
		copied += c
		boff = 0
		idx++
	}
	util.DPrintf(2, "Read: inode %d, %d bytes at %d\n", inum, n, off)
	return n
}

// Write copies data into the file starting at byte off, extending it
// as needed. Blocks the file already owns (the first
// RoundUp(size, BlockSize) pointer slots) are reused; anything past
// that is claimed first-fit from the block bitmap, with the indirect
// block allocated on first need. When the volume fills up mid-write
// the walk stops where it is: the inode is persisted with its size
// grown only to the bytes actually placed and the partial count is
// returned with OutOfSpace set. Writes at off > size are refused
// (files may grow, but never with a gap) and writes never shrink the
// size.
func (fs *Fs) Write(inum common.Inum, data []byte, off uint64) WriteResult {
	if !fs.mounted || !fs.sb.InRange(inum) {
		return WriteResult{}
	}
	ip := inode.Get(fs.d, fs.sb, inum)
	if !ip.Valid || off > ip.Size || util.SumOverflows(off, uint64(len(data))) {
		return WriteResult{}
	}
	allocated := ip.NBlocks()

	var indblk disk.Block
	indDirty := false
	outOfSpace := false
	n := uint64(len(data))
	var written uint64
	idx := off / disk.BlockSize
	boff := off % disk.BlockSize
	for written < n {
		if idx >= common.NDIRECT+common.NINDIRECT {
			outOfSpace = true
			break
		}
		var bn common.Bnum
		if idx < common.NDIRECT {
			if idx < allocated {
				bn = ip.Direct[idx]
			} else {
				bn = fs.bbmap.AllocNum()
				if bn == common.NULLBNUM {
					outOfSpace = true
					break
				}
				ip.Direct[idx] = bn
			}
		} else {
			if indblk == nil {
				if allocated > common.NDIRECT {
					indblk = fs.d.Read(ip.Indirect)
				} else {
					// file first crosses direct capacity here
					ib := fs.bbmap.AllocNum()
					if ib == common.NULLBNUM {
						outOfSpace = true
						break
					}
					ip.Indirect = ib
					indblk = make(disk.Block, disk.BlockSize)
					indDirty = true
				}
			}
			j := idx - common.NDIRECT
			if idx < allocated {
				bn = inode.PtrGet(indblk, j)
			} else {
				bn = fs.bbmap.AllocNum()
				if bn == common.NULLBNUM {
					outOfSpace = true
					break
				}
				inode.PtrPut(indblk, j, bn)
				indDirty = true
			}
		}

		c := util.Min(disk.BlockSize-boff, n-written)
		var blk disk.Block
		if c < disk.BlockSize && idx < allocated {
			blk = fs.d.Read(bn)
		} else {
			blk = make(disk.Block, disk.BlockSize)
		}
		copy(blk[boff:boff+c], data[written:written+c])
		fs.d.Write(bn, blk)
		written += c
		boff = 0
		idx++
	}

	if off+written > ip.Size {
		ip.Size = off + written
	}
	if indDirty && ip.NBlocks() <= common.NDIRECT {
		// ran out of space before any indirect entry landed; the
		// fresh indirect block is unreachable from the size, so
		// return it
		fs.bbmap.FreeNum(ip.Indirect)
		ip.Indirect = common.NULLBNUM
		indDirty = false
	}
	inode.Put(fs.d, fs.sb, inum, ip)
	if indDirty {
		fs.d.Write(ip.Indirect, indblk)
	}
	util.DPrintf(2, "Write: inode %d, %d/%d bytes at %d (full=%v)\n",
		inum, written, n, off, outOfSpace)
	return WriteResult{N: written, OutOfSpace: outOfSpace}
}
