// Command aafinfo prints the structure of an AAF animation container:
// frame count, per-frame format, geometry and block layout.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/emgfx/emgfx/aaf"
)

func main() {
	var verbose = flag.Bool("v", false, "print per-block compressed sizes")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: aafinfo [-v] file.aaf\n")
		os.Exit(2)
	}
	path := flag.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("read %s: %v", path, err)
	}
	asset, err := aaf.Parse(data)
	if err != nil {
		log.Fatalf("parse %s: %v", path, err)
	}

	fmt.Printf("%s: %d bytes, %d frames\n", path, len(data), asset.Frames())

	for i := 0; i < asset.Frames(); i++ {
		payload, err := asset.Frame(i)
		if err != nil {
			fmt.Printf("  frame %3d: unreadable: %v\n", i, err)
			continue
		}
		h, err := aaf.ParseHeader(payload)
		if err != nil {
			fmt.Printf("  frame %3d: %d bytes, bad header: %v\n", i, len(payload), err)
			continue
		}

		if h.Format == aaf.FormatRedirect {
			fmt.Printf("  frame %3d: redirect -> %s\n", i, h.Filename)
			continue
		}

		fmt.Printf("  frame %3d: %s v%s %dx%d depth=%d blocks=%d blockH=%d payload=%dB\n",
			i, h.Format, h.Version, h.Width, h.Height, h.BitDepth, h.Blocks, h.BlockHeight, len(payload))
		if h.NumColors() > 0 {
			fmt.Printf("             palette: %d colors\n", h.NumColors())
		}
		if *verbose {
			for b, n := range h.BlockLen {
				fmt.Printf("             block %2d: %d bytes\n", b, n)
			}
		}
	}
}
