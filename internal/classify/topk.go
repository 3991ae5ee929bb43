package classify

import (
	"cmp"
	"math"

	"github.com/emirpasic/gods/v2/trees/binaryheap"
)

// NoLabel is shown for classes without a label line.
const NoLabel = "(no-label)"

// Score is one ranked class.
type Score struct {
	Index    int     `json:"index"`
	Label    string  `json:"label"`
	Prob     float32 `json:"score"`
	Score255 uint32  `json:"score255"`
	Percent  uint32  `json:"percent"`
}

// byProbDesc orders higher probabilities first, then lower class indices.
func byProbDesc(a, b Score) int {
	if c := cmp.Compare(b.Prob, a.Prob); c != 0 {
		return c
	}
	return cmp.Compare(a.Index, b.Index)
}

// TopK returns the k most probable classes, best first. k larger than
// len(probs) is clamped; k <= 0 returns nil.
func TopK(probs []float32, labels []string, k int) []Score {
	k = min(k, len(probs))
	if k <= 0 {
		return nil
	}
	h := binaryheap.NewWith(byProbDesc)
	for i, p := range probs {
		label := NoLabel
		if i < len(labels) {
			label = labels[i]
		}
		h.Push(Score{
			Index:    i,
			Label:    label,
			Prob:     p,
			Score255: uint32(math.Round(float64(p) * 255)),
			Percent:  uint32(math.Round(float64(p) * 100)),
		})
	}
	out := make([]Score, 0, k)
	for len(out) < k {
		s, ok := h.Pop()
		if !ok {
			break
		}
		out = append(out, s)
	}
	return out
}
