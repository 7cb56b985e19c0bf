package simplefs

import (
	"github.com/mit-pdos/simplefs/common"
	"github.com/mit-pdos/simplefs/inode"
	"github.com/mit-pdos/simplefs/util"
)

// Create allocates the lowest free inode slot and installs a fresh
// valid inode of size 0 with all pointers zeroed. Returns NULLINUM
// when unmounted or when the table is full.
func (fs *Fs) Create() common.Inum {
	if !fs.mounted {
		return common.NULLINUM
	}
	inum := fs.ibmap.AllocNum()
	if inum == 0 {
		util.DPrintf(1, "Create: no free inodes\n")
		return common.NULLINUM
	}
	ip := &inode.Inode{Valid: true}
	inode.Put(fs.d, fs.sb, common.Inum(inum), ip)
	util.DPrintf(1, "Create: inode %d\n", inum)
	return common.Inum(inum)
}

// Delete invalidates inum and returns its blocks (indirect block
// included) and its table slot to the free pools. Fails, with no
// effect, when unmounted, out of range, or already invalid.
func (fs *Fs) Delete(inum common.Inum) bool {
	if !fs.mounted || !fs.sb.InRange(inum) {
		return false
	}
	ip := inode.Get(fs.d, fs.sb, inum)
	if !ip.Valid {
		return false
	}
	ip.Valid = false
	inode.Put(fs.d, fs.sb, inum, ip)

	dc := inode.NewDataCursor(fs.d, ip)
	for {
		bn, ok := dc.Next()
		if !ok {
			break
		}
		fs.bbmap.FreeNum(bn)
	}
	if ip.NIndirect() > 0 {
		fs.bbmap.FreeNum(ip.Indirect)
	}
	fs.ibmap.FreeNum(uint64(inum))
	util.DPrintf(1, "Delete: inode %d, %d blocks\n", inum, ip.NBlocks())
	return true
}

// Getsize returns the file's size in bytes, or -1 when unmounted, out
// of range, or invalid. 0 is a legitimate size for an empty file, so
// it cannot serve as the failure sentinel.
func (fs *Fs) Getsize(inum common.Inum) int {
	if !fs.mounted || !fs.sb.InRange(inum) {
		return -1
	}
	ip := inode.Get(fs.d, fs.sb, inum)
	if !ip.Valid {
		return -1
	}
	return int(ip.Size)
}
