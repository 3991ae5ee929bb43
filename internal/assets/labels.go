package assets

import (
	"bytes"
	"strings"
)

// LoadLabels reads one label per line. CRLF endings are accepted and empty
// lines are dropped.
func LoadLabels(path string) ([]string, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLabels(data), nil
}

// ParseLabels splits data into labels.
func ParseLabels(data []byte) []string {
	var labels []string
	for line := range strings.SplitSeq(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		labels = append(labels, line)
	}
	return labels
}

// FormatLabels is the inverse of ParseLabels.
func FormatLabels(labels []string) []byte {
	var buf bytes.Buffer
	for _, l := range labels {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
