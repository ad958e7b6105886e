// Package pack writes a set of sources into a buffer.Buffer as a tar
// stream, optionally zstd-compressed and sealed.
//
// Layout: magic "mbpk", suite byte, flags byte, payload, seal trailer.
package pack

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dacapoday/membuf"
	"github.com/dacapoday/membuf/buffer"
	"github.com/klauspost/compress/zstd"
)

const headerSize = 6

var magicCode = [4]byte{'m', 'b', 'p', 'k'}

const flagZstd byte = 1 << 0

// Source is one file to pack. Open is called once, when the entry is written.
type Source struct {
	Name    string
	Mode    int64
	ModTime time.Time
	Size    int64
	Open    func() (io.ReadCloser, error)
}

// FileSource describes the regular file at path.
func FileSource(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Source{}, err
	}
	if !info.Mode().IsRegular() {
		return Source{}, fmt.Errorf("%s: %w: not a regular file", path, ErrUnsupported)
	}
	return Source{
		Name:    filepath.ToSlash(filepath.Clean(path)),
		Mode:    int64(info.Mode().Perm()),
		ModTime: info.ModTime(),
		Size:    info.Size(),
		Open:    func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// BytesSource describes an in-memory file.
func BytesSource(name string, data []byte, modTime time.Time) Source {
	return Source{
		Name:    name,
		Mode:    0o644,
		ModTime: modTime,
		Size:    int64(len(data)),
		Open:    func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

// Options selects the optional stages.
type Options struct {
	Zstd  bool
	Level int // zstd level, see zstd.EncoderLevelFromZstd

	Suite string // "none", "crc32" or "aes-256-gcm"
	Key   []byte // 32 bytes for aes-256-gcm

	// Allocator backs the scratch buffer an encrypting suite needs.
	// nil selects alloc.Default.
	Allocator membuf.Allocator
}

// Stats describes a finished Run.
type Stats struct {
	Files    int
	Raw      int64 // tar bytes before compression
	Stored   int   // bytes in dst
	Capacity int   // storage held by dst
}

// Run appends the packed sources to dst. On error dst may hold a partial
// pack after its original content.
func Run(dst *buffer.Buffer, sources []Source, opt Options) (stats Stats, err error) {
	codec, err := newCodec(opt.Suite, opt.Key)
	if err != nil {
		return stats, fmt.Errorf("pack.Run: %w", err)
	}

	header := [headerSize]byte{magicCode[0], magicCode[1], magicCode[2], magicCode[3], codec.suite}
	if opt.Zstd {
		header[5] |= flagZstd
	}
	start := dst.Len()
	if err = dst.Append(header[:]); err != nil {
		return stats, fmt.Errorf("pack.Run: %w", err)
	}

	payload := dst
	if codec.separate() {
		payload, err = buffer.New(opt.Allocator, 0)
		if err != nil {
			return stats, fmt.Errorf("pack.Run: %w", err)
		}
		defer payload.Release()
	}

	stats.Raw, err = archive(payload, sources, opt)
	if err != nil {
		return stats, fmt.Errorf("pack.Run: %w", err)
	}
	stats.Files = len(sources)

	if err = codec.seal(dst, payload, header[:], start); err != nil {
		return stats, fmt.Errorf("pack.Run: seal: %w", err)
	}
	stats.Stored = dst.Len() - start
	stats.Capacity = dst.Cap()
	return stats, nil
}

func archive(w io.Writer, sources []Source, opt Options) (raw int64, err error) {
	var enc *zstd.Encoder
	if opt.Zstd {
		enc, err = zstd.NewWriter(w,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(opt.Level)),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			return 0, fmt.Errorf("zstd: %w", err)
		}
		defer func() {
			if cerr := enc.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("zstd: %w", cerr)
			}
		}()
		w = enc
	}

	counter := &countWriter{w: w}
	tw := tar.NewWriter(counter)
	for _, src := range sources {
		if err = writeEntry(tw, src); err != nil {
			return counter.n, err
		}
	}
	if err = tw.Close(); err != nil {
		return counter.n, fmt.Errorf("tar: %w", err)
	}
	return counter.n, nil
}

func writeEntry(tw *tar.Writer, src Source) error {
	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     src.Name,
		Mode:     src.Mode,
		Size:     src.Size,
		ModTime:  src.ModTime,
		Format:   tar.FormatPAX,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("%s: %w", src.Name, err)
	}
	r, err := src.Open()
	if err != nil {
		return fmt.Errorf("%s: %w", src.Name, err)
	}
	defer r.Close()
	if _, err = io.CopyN(tw, r, src.Size); err != nil {
		return fmt.Errorf("%s: %w", src.Name, err)
	}
	return nil
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Entry is one unpacked file.
type Entry struct {
	Header *tar.Header
	Data   []byte
}

// Unpack verifies data produced by Run and calls fn for every entry.
// Entry.Data is only valid during the call.
func Unpack(data []byte, key []byte, fn func(Entry) error) error {
	if len(data) < headerSize {
		return fmt.Errorf("pack.Unpack: %w header", ErrTruncated)
	}
	if [4]byte(data[:4]) != magicCode {
		return fmt.Errorf("pack.Unpack: %w", ErrUnknownMagicCode)
	}
	if flags := data[5] &^ flagZstd; flags != 0 {
		return fmt.Errorf("pack.Unpack: %w: flags %#02x", ErrUnsupported, flags)
	}
	codec, err := loadCodec(data[4], key)
	if err != nil {
		return fmt.Errorf("pack.Unpack: %w", err)
	}
	payload, err := codec.open(data, headerSize)
	if err != nil {
		return fmt.Errorf("pack.Unpack: %w", err)
	}

	var r io.Reader = bytes.NewReader(payload)
	if data[5]&flagZstd != 0 {
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return fmt.Errorf("pack.Unpack: zstd: %w", err)
		}
		defer dec.Close()
		r = dec
	}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return trailing(r)
		}
		if err != nil {
			return fmt.Errorf("pack.Unpack: tar: %w", err)
		}
		var body buffer.Buffer
		if _, err = body.ReadFrom(tr); err != nil {
			body.Release()
			return fmt.Errorf("pack.Unpack: %s: %w", hdr.Name, err)
		}
		err = fn(Entry{Header: hdr, Data: body.Bytes()})
		body.Release()
		if err != nil {
			return err
		}
	}
}

// trailing reports data left in r after the tar end marker.
func trailing(r io.Reader) error {
	var one [1]byte
	n, err := io.ReadFull(r, one[:])
	if n != 0 {
		return fmt.Errorf("pack.Unpack: %w", ErrTrailingData)
	}
	if err != io.EOF {
		return fmt.Errorf("pack.Unpack: %w", err)
	}
	return nil
}
