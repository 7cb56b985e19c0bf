package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/anmitsu/go-shlex"
	"github.com/wader/readline"

	"github.com/mit-pdos/simplefs"
	"github.com/mit-pdos/simplefs/common"
)

var errExit = fmt.Errorf("exit")

const copyChunk = 16384

type shellInstance struct {
	rl *readline.Instance
	fs *simplefs.Fs
}

func localFiles(prefix string) func(s string) []string {
	return func(s string) []string {
		dirName := filepath.Dir(filepath.Join(".", strings.TrimPrefix(s, prefix)))

		files, err := os.ReadDir(dirName)
		if err != nil {
			return []string{}
		}

		var ret []string
		for _, file := range files {
			ret = append(ret, filepath.Join(dirName, file.Name()))
		}
		return ret
	}
}

func (sh *shellInstance) getCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("format"),
		readline.PcItem("mount"),
		readline.PcItem("debug"),
		readline.PcItem("create"),
		readline.PcItem("delete"),
		readline.PcItem("getsize"),
		readline.PcItem("cat"),
		readline.PcItem("copyin", readline.PcItemDynamic(localFiles("copyin "))),
		readline.PcItem("copyout"),
		readline.PcItem("defrag"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
		readline.PcItem("exit"),
	)
}

func parseInum(s string) (common.Inum, bool) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return common.NULLINUM, false
	}
	return common.Inum(n), true
}

func (sh *shellInstance) processLine(line string) error {
	tokens, err := shlex.Split(line, true)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}

	switch tokens[0] {
	case "format":
		if sh.fs.Format() {
			fmt.Printf("disk formatted.\n")
		} else {
			fmt.Printf("format failed!\n")
		}
	case "mount":
		if sh.fs.Mount() {
			fmt.Printf("disk mounted.\n")
		} else {
			fmt.Printf("mount failed!\n")
		}
	case "debug":
		sh.fs.Debug(os.Stdout)
	case "create":
		if inum := sh.fs.Create(); inum != common.NULLINUM {
			fmt.Printf("created inode %d\n", inum)
		} else {
			fmt.Printf("create failed!\n")
		}
	case "delete":
		if len(tokens) != 2 {
			fmt.Printf("use: delete <inumber>\n")
			break
		}
		inum, ok := parseInum(tokens[1])
		if ok && sh.fs.Delete(inum) {
			fmt.Printf("inode %d deleted.\n", inum)
		} else {
			fmt.Printf("delete failed!\n")
		}
	case "getsize":
		if len(tokens) != 2 {
			fmt.Printf("use: getsize <inumber>\n")
			break
		}
		inum, ok := parseInum(tokens[1])
		if !ok {
			fmt.Printf("getsize failed!\n")
			break
		}
		if size := sh.fs.Getsize(inum); size >= 0 {
			fmt.Printf("inode %d has size %d\n", inum, size)
		} else {
			fmt.Printf("getsize failed!\n")
		}
	case "cat":
		if len(tokens) != 2 {
			fmt.Printf("use: cat <inumber>\n")
			break
		}
		inum, ok := parseInum(tokens[1])
		if !ok || !sh.copyout(inum, os.Stdout) {
			fmt.Printf("cat failed!\n")
		}
	case "copyin":
		if len(tokens) != 3 {
			fmt.Printf("use: copyin <filename> <inumber>\n")
			break
		}
		inum, ok := parseInum(tokens[2])
		if ok && sh.copyin(tokens[1], inum) {
			fmt.Printf("copied file %s to inode %d\n", tokens[1], inum)
		} else {
			fmt.Printf("copy failed!\n")
		}
	case "copyout":
		if len(tokens) != 3 {
			fmt.Printf("use: copyout <inumber> <filename>\n")
			break
		}
		inum, ok := parseInum(tokens[1])
		if ok && sh.copyoutFile(inum, tokens[2]) {
			fmt.Printf("copied inode %s to file %s\n", tokens[1], tokens[2])
		} else {
			fmt.Printf("copy failed!\n")
		}
	case "defrag":
		if sh.fs.Defrag() {
			fmt.Printf("disk defragmented; inumbers have been reassigned.\n")
		} else {
			fmt.Printf("defrag failed!\n")
		}
	case "help":
		fmt.Printf("Commands are:\n")
		fmt.Printf("    format\n")
		fmt.Printf("    mount\n")
		fmt.Printf("    debug\n")
		fmt.Printf("    create\n")
		fmt.Printf("    delete  <inode>\n")
		fmt.Printf("    getsize <inode>\n")
		fmt.Printf("    cat     <inode>\n")
		fmt.Printf("    copyin  <file> <inode>\n")
		fmt.Printf("    copyout <inode> <file>\n")
		fmt.Printf("    defrag\n")
		fmt.Printf("    help\n")
		fmt.Printf("    quit\n")
		fmt.Printf("    exit\n")
	case "quit", "exit":
		return errExit
	default:
		fmt.Printf("unknown command: %s\n", tokens[0])
		fmt.Printf("type 'help' for a list of commands.\n")
	}
	return nil
}

// copyin streams a host file into an inode. A short filesystem write
// means the volume filled up; copying stops there with a warning.
func (sh *shellInstance) copyin(filename string, inum common.Inum) bool {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Printf("couldn't open %s: %v\n", filename, err)
		return false
	}
	defer f.Close()

	var offset uint64
	buffer := make([]byte, copyChunk)
	for {
		n, err := f.Read(buffer)
		if n > 0 {
			res := sh.fs.Write(inum, buffer[:n], offset)
			offset += res.N
			if res.N != uint64(n) {
				fmt.Printf("WARNING: fs write only wrote %d bytes, not %d bytes\n", res.N, n)
				break
			}
		}
		if err != nil {
			break
		}
	}

	fmt.Printf("%d bytes copied\n", offset)
	return true
}

// copyout streams an inode to w, reading until the filesystem reports
// end of file.
func (sh *shellInstance) copyout(inum common.Inum, w io.Writer) bool {
	if sh.fs.Getsize(inum) < 0 {
		return false
	}

	var offset uint64
	buffer := make([]byte, copyChunk)
	for {
		n := sh.fs.Read(inum, buffer, offset)
		if n == 0 {
			break
		}
		if _, err := w.Write(buffer[:n]); err != nil {
			fmt.Printf("write failed: %v\n", err)
			return false
		}
		offset += n
	}

	fmt.Printf("%d bytes copied\n", offset)
	return true
}

func (sh *shellInstance) copyoutFile(inum common.Inum, filename string) bool {
	f, err := os.Create(filename)
	if err != nil {
		fmt.Printf("couldn't open %s: %v\n", filename, err)
		return false
	}
	defer f.Close()

	return sh.copyout(inum, f)
}

func (sh *shellInstance) run() error {
	var err error

	sh.rl, err = readline.NewEx(&readline.Config{
		Prompt:       " simplefs> ",
		AutoComplete: sh.getCompleter(),
	})
	if err != nil {
		return err
	}
	defer sh.rl.Close()

	for {
		line, err := sh.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err != nil {
			break
		}

		err = sh.processLine(line)
		if err == errExit {
			break
		} else if err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}

	fmt.Printf("closing emulated disk.\n")
	return nil
}
