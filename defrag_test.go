package simplefs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tchajed/goose/machine/disk"

	"github.com/mit-pdos/simplefs"
	"github.com/mit-pdos/simplefs/common"
	"github.com/mit-pdos/simplefs/inode"
	"github.com/mit-pdos/simplefs/super"
)

func TestDefragEmpty(t *testing.T) {
	assert := assert.New(t)
	fs, _ := mkMounted(t, 20)

	assert.True(fs.Defrag())
	assert.Equal(common.Inum(1), fs.Create(), "allocation still starts at 1")
}

// The 20-block scenario: three files straddling the direct/indirect
// boundary, delete the first, compact, and expect the two survivors
// densely renumbered from 1 with their contents intact.
func TestDefragScenario(t *testing.T) {
	assert := assert.New(t)
	d := disk.NewMemDisk(20)
	fs := simplefs.MkFs(d)
	assert.True(fs.Format())
	assert.True(fs.Mount())

	sizes := []int{20480, 24698, 5075}
	bufs := make([][]byte, len(sizes))
	for i, sz := range sizes {
		inum := fs.Create()
		assert.Equal(common.Inum(i+1), inum)
		bufs[i] = data(sz)
		assert.Equal(simplefs.WriteResult{N: uint64(sz)}, fs.Write(inum, bufs[i], 0))
	}

	assert.True(fs.Delete(1))
	assert.True(fs.Defrag())

	// exactly 2 valid inodes, densely numbered from 1; identity did
	// not survive: old inode 2 is now 1, old 3 is now 2
	assert.Equal(24698, fs.Getsize(1))
	assert.Equal(5075, fs.Getsize(2))
	assert.Equal(-1, fs.Getsize(3))

	got := make([]byte, 24698)
	assert.Equal(uint64(24698), fs.Read(1, got, 0))
	assert.Equal(bufs[1], got, "contents survive compaction byte for byte")

	got = make([]byte, 5075)
	assert.Equal(uint64(5075), fs.Read(2, got, 0))
	assert.Equal(bufs[2], got)

	// live data occupies the first blocks of the data region with no
	// gaps, in inumber order: 5 direct, 2 indirect-addressed, the
	// indirect block itself, then the last file's 2 blocks
	sb := super.MkFsSuper(20)
	ds := sb.DataStart()
	ip := inode.Get(d, sb, 1)
	assert.Equal([common.NDIRECT]common.Bnum{ds, ds + 1, ds + 2, ds + 3, ds + 4}, ip.Direct)
	assert.Equal(ds+7, ip.Indirect)
	ind := d.Read(ip.Indirect)
	assert.Equal(ds+5, inode.PtrGet(ind, 0))
	assert.Equal(ds+6, inode.PtrGet(ind, 1))

	ip = inode.Get(d, sb, 2)
	assert.Equal(ds+8, ip.Direct[0])
	assert.Equal(ds+9, ip.Direct[1])

	assert.Equal(common.Inum(3), fs.Create(), "next slot after the dense prefix")
}

func TestDefragThenRemount(t *testing.T) {
	assert := assert.New(t)
	d := disk.NewMemDisk(20)
	fs := simplefs.MkFs(d)
	assert.True(fs.Format())
	assert.True(fs.Mount())

	fs.Create()
	b1 := data(100)
	fs.Write(1, b1, 0)
	fs.Create()
	b2 := data(24698)
	fs.Write(2, b2, 0)
	fs.Delete(1)
	assert.True(fs.Defrag())

	fs2 := simplefs.MkFs(d)
	assert.True(fs2.Mount(), "compacted volume mounts cleanly")
	assert.Equal(24698, fs2.Getsize(1))
	got := make([]byte, 24698)
	assert.Equal(uint64(24698), fs2.Read(1, got, 0))
	assert.Equal(b2, got)

	// a fresh write lands right after the compacted prefix
	i := fs2.Create()
	assert.Equal(common.Inum(2), i)
	assert.Equal(uint64(4096), fs2.Write(i, data(4096), 0).N)
	assert.Equal(24698, fs2.Getsize(1), "new allocation does not alias compacted data")
	assert.Equal(uint64(24698), fs2.Read(1, got, 0))
	assert.Equal(b2, got)
}
