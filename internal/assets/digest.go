package assets

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest identifies one bundle file.
type Digest struct {
	Name   string `json:"name"`
	Size   int    `json:"size"`
	SHA256 string `json:"sha256"`
}

// Digests hashes every file of l in a fixed order: depthwise, pointwise,
// labels.
func Digests(l Layout) ([]Digest, error) {
	names := []string{l.DepthwiseFile, l.PointwiseFile, l.LabelsFile}
	out := make([]Digest, 0, len(names))
	for _, name := range names {
		data, err := ReadFile(l.path(name))
		if err != nil {
			return nil, err
		}
		out = append(out, DigestOf(name, data))
	}
	return out, nil
}

// DigestOf hashes data in memory.
func DigestOf(name string, data []byte) Digest {
	sum := sha256.Sum256(data)
	return Digest{Name: name, Size: len(data), SHA256: hex.EncodeToString(sum[:])}
}
