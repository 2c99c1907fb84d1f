package io

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"pathtracer/core"
	remath "pathtracer/math"
)

const (
	bmpFileHeaderID = 0x4D42 // "BM"
	bmpFileHeaderSize = 14
	bmpInfoHeaderSize = 40
	bmpHeaderSize     = bmpFileHeaderSize + bmpInfoHeaderSize
	bmpBitsPerPixel   = 24
)

// SaveBMP writes img as a 24-bit uncompressed BI_RGB bitmap: a top-down DIB
// (negative height) so rows are written in on-screen order, each row padded
// to a 4-byte boundary, pixel bytes in B, G, R order. img's colors are
// assumed already gamma-encoded (see rt.encodeGamma) and are clamped to
// [0,1], scaled by 255 and truncated to 8 bits here.
func SaveBMP(path string, img *core.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save bmp %q: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	rowSize := (bmpBitsPerPixel*img.Width + 31) / 32 * 4
	pixelDataSize := rowSize * img.Height
	fileSize := bmpHeaderSize + pixelDataSize

	// BITMAPFILEHEADER
	writeU16(w, bmpFileHeaderID)
	writeU32(w, uint32(fileSize))
	writeU16(w, 0)
	writeU16(w, 0)
	writeU32(w, bmpHeaderSize)

	// BITMAPINFOHEADER
	writeU32(w, bmpInfoHeaderSize)
	writeI32(w, int32(img.Width))
	writeI32(w, -int32(img.Height)) // negative: top-down
	writeU16(w, 1)
	writeU16(w, bmpBitsPerPixel)
	writeU32(w, 0) // BI_RGB
	writeU32(w, uint32(pixelDataSize))
	writeI32(w, 2835) // ~72 DPI
	writeI32(w, 2835)
	writeU32(w, 0)
	writeU32(w, 0)

	pad := make([]byte, rowSize-3*img.Width)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			c := img.At(x, y)
			w.WriteByte(quantizeChannel(c.B))
			w.WriteByte(quantizeChannel(c.G))
			w.WriteByte(quantizeChannel(c.R))
		}
		w.Write(pad)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("save bmp %q: %w", path, err)
	}
	return nil
}

func quantizeChannel(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v * 255)
}

func writeU16(w *bufio.Writer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.Write(b[:])
}

func writeU32(w *bufio.Writer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func writeI32(w *bufio.Writer, v int32) { writeU32(w, uint32(v)) }

// LoadBMP reads a 24-bit uncompressed BI_RGB bitmap (top-down or
// bottom-up) into linear-space RGB pixels in [0,1], applying the sRGB
// transfer function's inverse — the same convention rt.LoadTexture uses for
// other image formats — so skybox faces and texture maps loaded via BMP
// compose correctly with the rest of the lighting pipeline.
func LoadBMP(path string) (width, height int, pixels []core.Color, err error) {
	f, ferr := os.Open(path)
	if ferr != nil {
		return 0, 0, nil, fmt.Errorf("load bmp %q: %w", path, ferr)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	header := make([]byte, bmpHeaderSize)
	if _, err := readFull(r, header); err != nil {
		return 0, 0, nil, fmt.Errorf("load bmp %q: %w", path, err)
	}

	id := binary.LittleEndian.Uint16(header[0:2])
	if id != bmpFileHeaderID {
		return 0, 0, nil, fmt.Errorf("load bmp %q: not a BMP file", path)
	}
	dataOffset := binary.LittleEndian.Uint32(header[10:14])
	infoSize := binary.LittleEndian.Uint32(header[14:18])
	w := int(int32(binary.LittleEndian.Uint32(header[18:22])))
	h := int(int32(binary.LittleEndian.Uint32(header[22:26])))
	bpp := binary.LittleEndian.Uint16(header[28:30])
	compression := binary.LittleEndian.Uint32(header[30:34])

	if bpp != bmpBitsPerPixel || compression != 0 {
		return 0, 0, nil, fmt.Errorf("load bmp %q: only uncompressed 24-bit BMPs are supported", path)
	}

	topDown := h < 0
	if topDown {
		h = -h
	}

	if extra := int(dataOffset) - bmpHeaderSize; extra > 0 {
		if _, err := readFull(r, make([]byte, extra)); err != nil {
			return 0, 0, nil, fmt.Errorf("load bmp %q: %w", path, err)
		}
	}
	_ = infoSize

	rowSize := (bmpBitsPerPixel*w + 31) / 32 * 4
	row := make([]byte, rowSize)
	pixels = make([]core.Color, w*h)

	for i := 0; i < h; i++ {
		if _, err := readFull(r, row); err != nil {
			return 0, 0, nil, fmt.Errorf("load bmp %q: %w", path, err)
		}
		y := i
		if !topDown {
			y = h - 1 - i
		}
		for x := 0; x < w; x++ {
			b := float32(row[x*3+0]) / 255
			g := float32(row[x*3+1]) / 255
			rr := float32(row[x*3+2]) / 255
			pixels[y*w+x] = core.Color{R: remath.SRGBToLinear(rr), G: remath.SRGBToLinear(g), B: remath.SRGBToLinear(b)}
		}
	}

	return w, h, pixels, nil
}

func readFull(r *bufio.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
