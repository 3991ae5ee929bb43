// Package imageio decodes classifier input images into NHWC tensors.
package imageio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"golang.org/x/image/bmp"

	"github.com/samcharles93/dsconv/internal/qnn"
)

var (
	ErrUnsupportedBMP = errors.New("imageio: unsupported BMP (need 24-bit BI_RGB)")
	ErrTruncated      = errors.New("imageio: truncated BMP header")
)

const (
	bmpFileHeaderSize = 14
	bmpInfoHeaderSize = 40
)

// RGB is a packed, top-down, 3 bytes per pixel image.
type RGB struct {
	W, H int
	Pix  []uint8
}

// LoadBMPFile reads and decodes a 24-bit BMP from disk.
func LoadBMPFile(path string) (RGB, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RGB{}, err
	}
	img, err := DecodeBMP(data)
	if err != nil {
		return RGB{}, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// LoadBMP decodes a 24-bit BMP from r.
func LoadBMP(r io.Reader) (RGB, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return RGB{}, err
	}
	return DecodeBMP(data)
}

// DecodeBMP decodes an in-memory BMP. Only uncompressed 24-bit images with a
// 40-byte BITMAPINFOHEADER are accepted; rows may be stored bottom-up or
// top-down.
func DecodeBMP(data []byte) (RGB, error) {
	if err := checkHeader(data); err != nil {
		return RGB{}, err
	}
	img, err := bmp.Decode(bytes.NewReader(data))
	if err != nil {
		return RGB{}, fmt.Errorf("imageio: decode: %w", err)
	}
	return FromImage(img), nil
}

func checkHeader(data []byte) error {
	if len(data) < bmpFileHeaderSize+bmpInfoHeaderSize {
		return ErrTruncated
	}
	le := binary.LittleEndian
	if data[0] != 'B' || data[1] != 'M' {
		return fmt.Errorf("%w: bad magic", ErrUnsupportedBMP)
	}
	info := data[bmpFileHeaderSize:]
	size := le.Uint32(info[0:4])
	planes := le.Uint16(info[12:14])
	bits := le.Uint16(info[14:16])
	compression := le.Uint32(info[16:20])
	if size != bmpInfoHeaderSize || planes != 1 || bits != 24 || compression != 0 {
		return fmt.Errorf("%w: header=%d planes=%d bits=%d compression=%d",
			ErrUnsupportedBMP, size, planes, bits, compression)
	}
	return nil
}

// FromImage converts any image.Image into packed RGB, dropping alpha.
func FromImage(img image.Image) RGB {
	b := img.Bounds()
	out := RGB{W: b.Dx(), H: b.Dy(), Pix: make([]uint8, b.Dx()*b.Dy()*3)}
	if m, ok := img.(*image.RGBA); ok {
		for y := 0; y < out.H; y++ {
			row := m.Pix[y*m.Stride : y*m.Stride+out.W*4]
			dst := out.Pix[y*out.W*3 : (y+1)*out.W*3]
			for x := 0; x < out.W; x++ {
				dst[x*3+0] = row[x*4+0]
				dst[x*3+1] = row[x*4+1]
				dst[x*3+2] = row[x*4+2]
			}
		}
		return out
	}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			out.Pix[i+0] = uint8(r >> 8)
			out.Pix[i+1] = uint8(g >> 8)
			out.Pix[i+2] = uint8(bl >> 8)
			i += 3
		}
	}
	return out
}

// ToTensor copies the image into a fresh H x W x 3 NHWC tensor. Pixel bytes
// are used as codes unchanged; scale and zp describe how they decode.
func (m RGB) ToTensor(scale float32, zp int) qnn.Tensor {
	t := qnn.NewTensor(m.H, m.W, 3, scale, zp)
	copy(t.Data, m.Pix)
	return t
}

// Into writes the image into an existing 3-channel tensor of the same size.
func (m RGB) Into(t qnn.Tensor) error {
	if t.H != m.H || t.W != m.W || t.C != 3 {
		return fmt.Errorf("imageio: tensor %s does not fit %dx%d RGB", t, m.W, m.H)
	}
	copy(t.Data, m.Pix)
	return nil
}

// EncodeBMP writes m as an opaque 24-bit BMP.
func EncodeBMP(w io.Writer, m RGB) error {
	img := image.NewRGBA(image.Rect(0, 0, m.W, m.H))
	for i := 0; i < m.W*m.H; i++ {
		img.Pix[i*4+0] = m.Pix[i*3+0]
		img.Pix[i*4+1] = m.Pix[i*3+1]
		img.Pix[i*4+2] = m.Pix[i*3+2]
		img.Pix[i*4+3] = 0xff
	}
	return bmp.Encode(w, img)
}
