// Command canvasdump decodes a wire-format instruction stream and prints
// the resulting Draw sequence, one instruction per line.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gogpu/canvas/codec"
)

func main() {
	var (
		input = flag.String("input", "", "wire stream file to decode (default: stdin)")
		count = flag.Bool("count", false, "print only the instruction count")
	)
	flag.Parse()

	r, err := openInput(*input)
	if err != nil {
		log.Fatalf("canvasdump: %v", err)
	}
	defer r.Close()

	n, err := dump(os.Stdout, r, *count)
	if err != nil {
		log.Fatalf("canvasdump: %v", err)
	}
	if *count {
		fmt.Fprintln(os.Stdout, n)
	}
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// dump feeds r's bytes through a codec.Decoder and writes each decoded
// Draw to w, returning the number of instructions decoded.
func dump(w io.Writer, r io.Reader, quiet bool) (int, error) {
	dec := codec.NewDecoder()
	br := bufio.NewReader(r)
	n := 0
	buf := make([]byte, 4096)
	for {
		m, readErr := br.Read(buf)
		for i := 0; i < m; i++ {
			draw, ready, err := dec.Feed(buf[i])
			if err != nil {
				return n, fmt.Errorf("decode after instruction %d: %w", n, err)
			}
			if ready {
				n++
				if !quiet {
					fmt.Fprintf(w, "%04d %T %#v\n", n, draw, draw)
				}
			}
		}
		if readErr == io.EOF {
			return n, nil
		}
		if readErr != nil {
			return n, readErr
		}
	}
}
