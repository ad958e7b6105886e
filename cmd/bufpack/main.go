// bufpack packs files into a single in-memory buffer and writes it out.
//
// Usage:
//
//	bufpack pack [flags] <path>...      # pack files ("-" reads stdin)
//	bufpack pack --zstd -o out.mbpk a b # compressed, to a file
//	bufpack list [--key-file k] <file>  # list the entries of a pack
//
// Settings can also come from a YAML file given with --config:
//
//	allocator: pool      # heap, pool or mmap
//	limit: 512MiB        # memory budget for buffers
//	initial: 64KiB       # initial output capacity
//	zstd: true
//	level: 3
//	suite: aes-256-gcm   # none, crc32 or aes-256-gcm
//	key_file: ./pack.key # 32 raw bytes or 64 hex digits
//
// Flags override the file.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
