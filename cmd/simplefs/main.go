package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/tchajed/goose/machine/disk"

	"github.com/mit-pdos/simplefs"
)

var rootCmd = &cobra.Command{
	Use:   "simplefs <diskfile> <nblocks>",
	Short: "Interactive shell for a simplefs volume on an emulated disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		nblocks, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil || nblocks == 0 {
			return fmt.Errorf("bad block count %q", args[1])
		}

		d, err := disk.NewFileDisk(args[0], nblocks)
		if err != nil {
			return fmt.Errorf("couldn't initialize %s: %w", args[0], err)
		}
		defer d.Close()

		fmt.Printf("opened emulated disk image %s with %d blocks\n", args[0], d.Size())

		sh := &shellInstance{fs: simplefs.MkFs(d)}
		return sh.run()
	},
	SilenceUsage: true,
}

func main() {
	w := os.Stderr

	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			NoColor: !isatty.IsTerminal(w.Fd()),
		}),
	))

	if err := rootCmd.Execute(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}
