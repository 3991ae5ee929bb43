//go:build !unix

package assets

import "os"

func readMapped(_ *os.File, _ int) ([]byte, bool) {
	return nil, false
}
