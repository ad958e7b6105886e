package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dacapoday/membuf"
	"github.com/dacapoday/membuf/buffer"
	"github.com/dacapoday/membuf/internal/pack"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var packOutput string

var packCmd = &cobra.Command{
	Use:   "pack [flags] <path>...",
	Short: "Pack files into one stream",
	Long: `Pack files into one stream. A path of "-" packs standard input as an
entry named "stdin".

Examples:
  bufpack pack -o out.mbpk notes.txt photo.jpg
  tar c dir | bufpack pack --zstd --suite none - > out.mbpk
  bufpack pack --suite aes-256-gcm --key-file pack.key -o out.mbpk secrets.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPack,
}

func init() {
	defaults := defaultConfig()
	f := packCmd.Flags()
	f.StringVarP(&packOutput, "output", "o", "", "output file (default: stdout)")
	f.String("allocator", defaults.Allocator, "allocator: heap, pool or mmap")
	f.String("limit", defaults.Limit, "memory budget for buffers, e.g. 512MiB (default: unlimited)")
	f.String("initial", defaults.Initial, "initial output capacity")
	f.Bool("zstd", defaults.Zstd, "compress with zstd")
	f.Int("level", defaults.Level, "zstd level")
	f.String("suite", defaults.Suite, "seal: none, crc32 or aes-256-gcm")
	f.String("key-file", defaults.KeyFile, "aes-256-gcm key file")
}

func runPack(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}
	cfg.override(cmd)

	a, err := cfg.allocator()
	if err != nil {
		return err
	}
	initial, err := cfg.initialCapacity()
	if err != nil {
		return err
	}
	key, err := cfg.key()
	if err != nil {
		return err
	}

	dst, err := buffer.New(a, initial)
	if err != nil {
		return fmt.Errorf("allocate output: %w", err)
	}
	defer dst.Release()

	var sources []pack.Source
	for _, arg := range args {
		var src pack.Source
		if arg == "-" {
			in, err := readStdin(cmd.InOrStdin(), a)
			if err != nil {
				return err
			}
			defer in.Release()
			src = pack.BytesSource("stdin", in.Bytes(), time.Now())
		} else {
			src, err = pack.FileSource(arg)
			if err != nil {
				return err
			}
		}
		slog.Debug("source", "name", src.Name, "size", humanize.IBytes(uint64(src.Size)))
		sources = append(sources, src)
	}

	stats, err := pack.Run(dst, sources, pack.Options{
		Zstd:      cfg.Zstd,
		Level:     cfg.Level,
		Suite:     cfg.Suite,
		Key:       key,
		Allocator: a,
	})
	if err != nil {
		return err
	}
	slog.Info("packed",
		"files", stats.Files,
		"raw", humanize.IBytes(uint64(stats.Raw)),
		"stored", humanize.IBytes(uint64(stats.Stored)),
		"capacity", humanize.IBytes(uint64(stats.Capacity)),
	)

	return writeOutput(cmd.OutOrStdout(), packOutput, dst)
}

func readStdin(r io.Reader, a membuf.Allocator) (*buffer.Buffer, error) {
	in, err := buffer.New(a, 0)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	if _, err := in.ReadFrom(r); err != nil {
		in.Release()
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return in, nil
}

func writeOutput(stdout io.Writer, path string, buf *buffer.Buffer) error {
	if path == "" {
		_, err := buf.WriteTo(stdout)
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := buf.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
