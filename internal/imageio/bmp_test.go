package imageio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

// encodeBMP24 writes a minimal uncompressed 24-bit BMP. rgb is top-down.
func encodeBMP24(w, h int, rgb []uint8, bottomUp bool, bits uint16) []byte {
	stride := (w*3 + 3) &^ 3
	var buf bytes.Buffer
	le := binary.LittleEndian
	_ = binary.Write(&buf, le, [2]byte{'B', 'M'})
	_ = binary.Write(&buf, le, uint32(54+stride*h))
	_ = binary.Write(&buf, le, uint32(0))
	_ = binary.Write(&buf, le, uint32(54))

	height := int32(h)
	if !bottomUp {
		height = -height
	}
	_ = binary.Write(&buf, le, uint32(40))
	_ = binary.Write(&buf, le, int32(w))
	_ = binary.Write(&buf, le, height)
	_ = binary.Write(&buf, le, uint16(1))
	_ = binary.Write(&buf, le, bits)
	_ = binary.Write(&buf, le, uint32(0))
	_ = binary.Write(&buf, le, uint32(stride*h))
	_ = binary.Write(&buf, le, [4]int32{2835, 2835, 0, 0})

	row := make([]byte, stride)
	for i := 0; i < h; i++ {
		y := i
		if bottomUp {
			y = h - 1 - i
		}
		for x := 0; x < w; x++ {
			p := rgb[(y*w+x)*3:]
			row[x*3+0], row[x*3+1], row[x*3+2] = p[2], p[1], p[0]
		}
		buf.Write(row)
	}
	return buf.Bytes()
}

func testPixels(w, h int) []uint8 {
	pix := make([]uint8, w*h*3)
	for i := range pix {
		pix[i] = uint8(i * 7)
	}
	return pix
}

func TestDecodeBMPOrientation(t *testing.T) {
	for _, bottomUp := range []bool{true, false} {
		w, h := 5, 3
		pix := testPixels(w, h)
		img, err := DecodeBMP(encodeBMP24(w, h, pix, bottomUp, 24))
		if err != nil {
			t.Fatalf("bottomUp=%v: DecodeBMP: %v", bottomUp, err)
		}
		if img.W != w || img.H != h {
			t.Fatalf("size = %dx%d, want %dx%d", img.W, img.H, w, h)
		}
		if !bytes.Equal(img.Pix, pix) {
			t.Fatalf("bottomUp=%v: pixels differ\n got %v\nwant %v", bottomUp, img.Pix, pix)
		}
	}
}

func TestDecodeBMPRejects(t *testing.T) {
	if _, err := DecodeBMP([]byte("BM")); !errors.Is(err, ErrTruncated) {
		t.Fatalf("short: err = %v, want ErrTruncated", err)
	}
	bad := encodeBMP24(2, 2, testPixels(2, 2), true, 24)
	bad[0] = 'X'
	if _, err := DecodeBMP(bad); !errors.Is(err, ErrUnsupportedBMP) {
		t.Fatalf("magic: err = %v, want ErrUnsupportedBMP", err)
	}
	if _, err := DecodeBMP(encodeBMP24(2, 2, testPixels(2, 2), true, 32)); !errors.Is(err, ErrUnsupportedBMP) {
		t.Fatalf("32-bit: err = %v, want ErrUnsupportedBMP", err)
	}
}

func TestLoadBMPFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "digit.bmp")
	pix := testPixels(4, 4)
	if err := os.WriteFile(path, encodeBMP24(4, 4, pix, true, 24), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	img, err := LoadBMPFile(path)
	if err != nil {
		t.Fatalf("LoadBMPFile: %v", err)
	}
	if !bytes.Equal(img.Pix, pix) {
		t.Fatalf("pixels differ")
	}
	if _, err := LoadBMPFile(filepath.Join(t.TempDir(), "missing.bmp")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestToTensor(t *testing.T) {
	img := RGB{W: 2, H: 1, Pix: []uint8{1, 2, 3, 4, 5, 6}}
	tt := img.ToTensor(0.02, 128)
	if tt.H != 1 || tt.W != 2 || tt.C != 3 {
		t.Fatalf("shape = %s", tt)
	}
	if tt.At(0, 1, 2) != 6 || tt.At(0, 0, 0) != 1 {
		t.Fatalf("data = %v", tt.Data)
	}
	img.Pix[0] = 99
	if tt.Data[0] != 1 {
		t.Fatal("ToTensor must copy pixels")
	}
}

func TestFromImageGeneric(t *testing.T) {
	m := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	m.Set(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	img := FromImage(m)
	want := []uint8{0, 0, 0, 10, 20, 30}
	if !bytes.Equal(img.Pix, want) {
		t.Fatalf("pix = %v, want %v", img.Pix, want)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	want := RGB{W: 7, H: 5, Pix: testPixels(7, 5)}
	var buf bytes.Buffer
	if err := EncodeBMP(&buf, want); err != nil {
		t.Fatalf("EncodeBMP: %v", err)
	}
	got, err := LoadBMP(&buf)
	if err != nil {
		t.Fatalf("LoadBMP: %v", err)
	}
	if got.W != want.W || got.H != want.H || !bytes.Equal(got.Pix, want.Pix) {
		t.Fatalf("round trip mismatch: %dx%d", got.W, got.H)
	}
}
