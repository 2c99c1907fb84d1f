package io

import (
	"bufio"
	"fmt"
	"os"
	"strconv"

	"pathtracer/core"
)

// SavePPM writes img as ASCII PPM (P3): a "P3\n<W> <H>\n255\n" header
// followed by one "r g b\n" triplet per pixel in row-major, top-to-bottom
// order. Channels are clamped to [0,1] and quantized to 8 bits, the same as
// SaveBMP.
func SavePPM(path string, img *core.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save ppm %q: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "P3\n%d %d\n255\n", img.Width, img.Height)

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := img.At(x, y)
			w.WriteString(strconv.Itoa(int(quantizeChannel(c.R))))
			w.WriteByte(' ')
			w.WriteString(strconv.Itoa(int(quantizeChannel(c.G))))
			w.WriteByte(' ')
			w.WriteString(strconv.Itoa(int(quantizeChannel(c.B))))
			w.WriteByte('\n')
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("save ppm %q: %w", path, err)
	}
	return nil
}
