// Package assets loads and writes the on-disk model bundle: raw depthwise
// and pointwise weight codes plus a newline-separated label file.
package assets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/samcharles93/dsconv/internal/logger"
	"github.com/samcharles93/dsconv/internal/qnn"
)

var ErrSizeMismatch = errors.New("assets: size mismatch")

// SizeError reports a weight file whose length does not match its layout.
type SizeError struct {
	Name      string
	Got, Want int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("assets: %s has %d bytes, want %d", e.Name, e.Got, e.Want)
}

func (e *SizeError) Unwrap() error {
	return ErrSizeMismatch
}

// Default file names inside an assets directory.
const (
	DefaultDepthwiseFile = "dw3x3_c3.bin"
	DefaultPointwiseFile = "pw1x1_c10x3.bin"
	DefaultLabelsFile    = "labels.txt"
)

// Layout names the bundle files and the channel counts they must match.
type Layout struct {
	Dir           string
	DepthwiseFile string
	PointwiseFile string
	LabelsFile    string
	Cin, Cout     int
}

// DefaultLayout is the 3 -> 10 digit classifier bundle.
func DefaultLayout(dir string) Layout {
	return Layout{
		Dir:           dir,
		DepthwiseFile: DefaultDepthwiseFile,
		PointwiseFile: DefaultPointwiseFile,
		LabelsFile:    DefaultLabelsFile,
		Cin:           3,
		Cout:          10,
	}
}

func (l Layout) path(name string) string {
	return filepath.Join(l.Dir, name)
}

// Bundle holds the raw weight codes and labels of one model.
type Bundle struct {
	Depthwise []uint8
	Pointwise []uint8
	Labels    []string
}

// ReadFile returns the full contents of path, preferring a read-only mmap.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if data, ok := readMapped(f, int(st.Size())); ok {
		return data, nil
	}
	return io.ReadAll(f)
}

// LoadWeights reads a raw weight file and checks it holds exactly want codes.
func LoadWeights(path string, want int) ([]uint8, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) != want {
		return nil, &SizeError{Name: filepath.Base(path), Got: len(data), Want: want}
	}
	return data, nil
}

// Load reads every file named by l. A label count that differs from Cout is
// logged, not rejected; missing labels render as "(no-label)".
func Load(log logger.Logger, l Layout) (Bundle, error) {
	dw, err := LoadWeights(l.path(l.DepthwiseFile), l.Cin*qnn.DepthwiseTaps)
	if err != nil {
		return Bundle{}, fmt.Errorf("depthwise weights: %w", err)
	}
	pw, err := LoadWeights(l.path(l.PointwiseFile), l.Cout*l.Cin)
	if err != nil {
		return Bundle{}, fmt.Errorf("pointwise weights: %w", err)
	}
	labels, err := LoadLabels(l.path(l.LabelsFile))
	if err != nil {
		return Bundle{}, fmt.Errorf("labels: %w", err)
	}
	if len(labels) != l.Cout {
		log.Warn("label count does not match class count", "labels", len(labels), "cout", l.Cout)
	}
	log.Debug("assets loaded", "dir", l.Dir, "dw_bytes", len(dw), "pw_bytes", len(pw), "labels", len(labels))
	return Bundle{Depthwise: dw, Pointwise: pw, Labels: labels}, nil
}

// Write stores b under l, creating the directory if needed.
func Write(l Layout, b Bundle) error {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(l.path(l.DepthwiseFile), b.Depthwise, 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(l.path(l.PointwiseFile), b.Pointwise, 0o644); err != nil {
		return err
	}
	return os.WriteFile(l.path(l.LabelsFile), FormatLabels(b.Labels), 0o644)
}
