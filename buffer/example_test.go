package buffer_test

import (
	"errors"
	"fmt"

	"github.com/dacapoday/membuf"
	"github.com/dacapoday/membuf/alloc"
	"github.com/dacapoday/membuf/buffer"
)

func Example() {
	// The zero value is an empty buffer; no allocation until the first append.
	var buf buffer.Buffer
	defer buf.Release()

	buf.Append([]byte("ab"))
	buf.Append([]byte("cde"))

	fmt.Printf("%s len=%d cap=%d\n", buf.Bytes(), buf.Len(), buf.Cap())

	// Output:
	// abcde len=5 cap=5
}

func ExampleNew() {
	counter := alloc.NewCounter(nil)
	buf, err := buffer.New(counter, 4)
	if err != nil {
		panic(err)
	}
	defer buf.Release()

	for range 100 {
		buf.WriteString("0123456789")
	}

	stats := counter.Stats()
	fmt.Printf("len=%d cap=%d allocs=%d frees=%d\n", buf.Len(), buf.Cap(), stats.Allocs, stats.Frees)

	// Output:
	// len=1000 cap=1280 allocs=9 frees=8
}

func ExampleBuffer_Reserve() {
	limit := alloc.NewLimit(nil, 4)
	buf, _ := buffer.New(limit, 4)
	buf.WriteString("abc")

	err := buf.Reserve(8)
	fmt.Println(errors.Is(err, membuf.ErrAllocateFailed))
	fmt.Printf("%s len=%d cap=%d\n", buf.Bytes(), buf.Len(), buf.Cap())

	// Output:
	// true
	// abc len=3 cap=4
}
