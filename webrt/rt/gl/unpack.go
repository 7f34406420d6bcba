package gl

import (
	"encoding/binary"
	"fmt"
	"math"
)

// pixelFormat describes how one (format, type) pair is laid out in memory.
type pixelFormat struct {
	bytesPerPixel int
	// alphaIndex is the byte offset of alpha inside an unpacked pixel, or -1.
	alphaIndex int
	channels   int
	// packed16 marks the UNSIGNED_SHORT_* layouts.
	packed16 bool
}

type formatKey struct {
	format    uint32
	pixelType uint32
}

var pixelFormats = map[formatKey]pixelFormat{
	{RGBA, UnsignedByte}:           {bytesPerPixel: 4, alphaIndex: 3, channels: 4},
	{RGB, UnsignedByte}:            {bytesPerPixel: 3, alphaIndex: -1, channels: 3},
	{Alpha, UnsignedByte}:          {bytesPerPixel: 1, alphaIndex: 0, channels: 1},
	{Luminance, UnsignedByte}:      {bytesPerPixel: 1, alphaIndex: -1, channels: 1},
	{LuminanceAlpha, UnsignedByte}: {bytesPerPixel: 2, alphaIndex: 1, channels: 2},
	{RGBA, UnsignedShort4444}:      {bytesPerPixel: 2, alphaIndex: -1, channels: 4, packed16: true},
	{RGBA, UnsignedShort5551}:      {bytesPerPixel: 2, alphaIndex: -1, channels: 4, packed16: true},
	{RGB, UnsignedShort565}:        {bytesPerPixel: 2, alphaIndex: -1, channels: 3, packed16: true},
	{RGBA, Float}:                  {bytesPerPixel: 16, alphaIndex: 12, channels: 4},
	{RGB, Float}:                   {bytesPerPixel: 12, alphaIndex: -1, channels: 3},
	{Alpha, Float}:                 {bytesPerPixel: 4, alphaIndex: 0, channels: 1},
	{Luminance, Float}:             {bytesPerPixel: 4, alphaIndex: -1, channels: 1},
	{LuminanceAlpha, Float}:        {bytesPerPixel: 8, alphaIndex: 4, channels: 2},
}

// UnpackState holds the client-side pixel store flags.
type UnpackState struct {
	FlipY            bool
	PremultiplyAlpha bool
	Alignment        int
}

func DefaultUnpackState() UnpackState {
	return UnpackState{Alignment: 4}
}

// RowStride is width*bpp rounded up to the alignment.
func (u UnpackState) RowStride(width, bytesPerPixel int) int {
	row := width * bytesPerPixel
	align := u.Alignment
	if align <= 1 {
		return row
	}
	return (row + align - 1) / align * align
}

// Apply returns pixels transformed by the flip and premultiply flags. With
// both flags off the input slice is returned as is. Otherwise a copy is
// transformed, so the caller's buffer is never modified.
func (u UnpackState) Apply(pixels []byte, width, height int, format, pixelType uint32) ([]byte, error) {
	return u.ApplyVolume(pixels, width, height, 1, format, pixelType)
}

// ApplyVolume is Apply for depth consecutive images of width x height. Each
// image is flipped on its own; image order is kept.
func (u UnpackState) ApplyVolume(pixels []byte, width, height, depth int, format, pixelType uint32) ([]byte, error) {
	if (!u.FlipY && !u.PremultiplyAlpha) || len(pixels) == 0 || width <= 0 || height <= 0 || depth <= 0 {
		return pixels, nil
	}
	pf, ok := pixelFormats[formatKey{format, pixelType}]
	if !ok {
		return nil, fmt.Errorf("unpack: unsupported format 0x%04x/0x%04x", format, pixelType)
	}
	rowBytes := width * pf.bytesPerPixel
	stride := u.RowStride(width, pf.bytesPerPixel)
	image := stride * height
	need := image*(depth-1) + stride*(height-1) + rowBytes
	if len(pixels) < need {
		return nil, fmt.Errorf("unpack: need %d bytes for %dx%dx%d, got %d", need, width, height, depth, len(pixels))
	}

	out := make([]byte, len(pixels))
	copy(out, pixels)
	for z := 0; z < depth; z++ {
		base := z * image
		if u.FlipY {
			for y := 0; y < height; y++ {
				src := base + y*stride
				dst := base + (height-1-y)*stride
				copy(out[dst:dst+rowBytes], pixels[src:src+rowBytes])
			}
		}
		if u.PremultiplyAlpha {
			for y := 0; y < height; y++ {
				row := base + y*stride
				premultiplyRow(out[row:row+rowBytes], pf, pixelType)
			}
		}
	}
	return out, nil
}

func premultiplyRow(row []byte, pf pixelFormat, pixelType uint32) {
	switch {
	case pixelType == UnsignedByte && pf.alphaIndex > 0:
		for i := 0; i+pf.bytesPerPixel <= len(row); i += pf.bytesPerPixel {
			a := uint32(row[i+pf.alphaIndex])
			for c := 0; c < pf.alphaIndex; c++ {
				row[i+c] = byte(uint32(row[i+c]) * a / 255)
			}
		}
	case pixelType == Float && pf.alphaIndex > 0:
		for i := 0; i+pf.bytesPerPixel <= len(row); i += pf.bytesPerPixel {
			a := math.Float32frombits(binary.LittleEndian.Uint32(row[i+pf.alphaIndex:]))
			for c := 0; c < pf.alphaIndex; c += 4 {
				v := math.Float32frombits(binary.LittleEndian.Uint32(row[i+c:]))
				binary.LittleEndian.PutUint32(row[i+c:], math.Float32bits(v*a))
			}
		}
	case pixelType == UnsignedShort4444:
		for i := 0; i+2 <= len(row); i += 2 {
			v := binary.LittleEndian.Uint16(row[i:])
			a := uint32(v & 0xF)
			r := uint32(v>>12&0xF) * a / 15
			g := uint32(v>>8&0xF) * a / 15
			b := uint32(v>>4&0xF) * a / 15
			binary.LittleEndian.PutUint16(row[i:], uint16(r<<12|g<<8|b<<4|a))
		}
	case pixelType == UnsignedShort5551:
		for i := 0; i+2 <= len(row); i += 2 {
			v := binary.LittleEndian.Uint16(row[i:])
			if v&1 == 0 {
				binary.LittleEndian.PutUint16(row[i:], 0)
			}
		}
	}
}
