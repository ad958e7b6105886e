package main

import (
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/dacapoday/membuf/buffer"
	"github.com/dacapoday/membuf/internal/pack"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "List the entries of a pack",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

func init() {
	listCmd.Flags().String("key-file", "", "aes-256-gcm key file")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}
	cfg.override(cmd)
	key, err := cfg.key()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	var data buffer.Buffer
	defer data.Release()
	if _, err := data.ReadFrom(f); err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	return pack.Unpack(data.Bytes(), key, func(e pack.Entry) error {
		_, err := fmt.Fprintf(out, "%s %8s %s %s\n",
			fs.FileMode(e.Header.Mode).Perm(),
			humanize.IBytes(uint64(e.Header.Size)),
			e.Header.ModTime.UTC().Format(time.RFC3339),
			e.Header.Name,
		)
		return err
	})
}
