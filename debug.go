package simplefs

import (
	"fmt"
	"io"

	"github.com/mit-pdos/simplefs/common"
	"github.com/mit-pdos/simplefs/inode"
	"github.com/mit-pdos/simplefs/super"
)

// Debug dumps the superblock and every valid inode with its resolved
// block addresses, flagging inodes whose pointer capacity cannot
// cover their stated size. It reads straight from the device, so it
// works on unmounted volumes and never mutates anything.
func (fs *Fs) Debug(w io.Writer) {
	sb := super.Decode(fs.d.Read(0))
	fmt.Fprintf(w, "superblock:\n")
	if sb.Valid() {
		fmt.Fprintf(w, "    magic number is valid\n")
	} else {
		fmt.Fprintf(w, "    magic number is not valid\n")
	}
	fmt.Fprintf(w, "    %d blocks total on disk\n", sb.NBlocks)
	fmt.Fprintf(w, "    %d blocks dedicated to inode table on disk\n", sb.NInodeBlocks)
	fmt.Fprintf(w, "    %d total spots in inode table\n", sb.NInodes)

	c := inode.NewCursor(fs.d, sb, 1)
	for {
		inum, ip, ok := c.Next()
		if !ok {
			break
		}
		if !ip.Valid {
			continue
		}
		fmt.Fprintf(w, "inode %d:\n", inum)
		fmt.Fprintf(w, "    size: %d bytes\n", ip.Size)

		fmt.Fprintf(w, "    direct data blocks:")
		for i := uint64(0); i < ip.NDirect(); i++ {
			fmt.Fprintf(w, " %d", ip.Direct[i])
		}
		fmt.Fprintf(w, "\n")

		nindirect := ip.NIndirect()
		if nindirect > 0 {
			fmt.Fprintf(w, "    indirect block: %d\n", ip.Indirect)
			fmt.Fprintf(w, "    indirect data blocks:")
			ind := fs.d.Read(ip.Indirect)
			n := common.NINDIRECT
			if nindirect < n {
				n = nindirect
			}
			for j := uint64(0); j < n; j++ {
				fmt.Fprintf(w, " %d", inode.PtrGet(ind, j))
			}
			fmt.Fprintf(w, "\n")
			if ip.Size > common.MAXSZ {
				fmt.Fprintf(w, "    WARNING: inode exceeds capacity of direct and indirect data blocks\n")
			}
		}
	}
}
