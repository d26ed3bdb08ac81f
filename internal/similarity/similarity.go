// Package similarity holds the scoring primitives shared by the
// recommendation scorer and the seller analytics: word-set Jaccard overlap,
// average-color distance and perceptual-hash Hamming distance.
package similarity

import (
	"math"
	"math/bits"
	"strings"

	"github.com/baechuer/craft-marketplace/services/recs-service/internal/domain"
)

// maxColorDist is the distance between pure black and pure white in RGB
// space (sqrt(255^2 * 3), rounded the same way the web client rounded it).
const maxColorDist = 441.0

// HashBits is the width of the aHash.
const HashBits = 64

// Tokenize lowercases, strips everything outside [a-z0-9], splits on
// whitespace and returns the resulting word set.
func Tokenize(s string) map[string]struct{} {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	set := make(map[string]struct{})
	for _, w := range strings.Fields(b.String()) {
		set[w] = struct{}{}
	}
	return set
}

// Jaccard is |a ∩ b| / |a ∪ b|. Two empty sets are disjoint, not identical.
func Jaccard(a, b map[string]struct{}) float64 {
	inter := 0
	for t := range a {
		if _, ok := b[t]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// Color maps the euclidean RGB distance to [0,1], 1 = identical.
func Color(a, b domain.RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	dist := math.Sqrt(dr*dr + dg*dg + db*db)
	sim := 1 - dist/maxColorDist
	if sim < 0 {
		return 0
	}
	return sim
}

// HammingHex counts differing bits between two hex-encoded 64-bit hashes,
// nibble by nibble. Malformed or mismatched input counts as maximally
// distant so it contributes nothing to similarity.
func HammingHex(a, b string) int {
	if len(a) != len(b) || len(a) == 0 {
		return HashBits
	}
	dist := 0
	for i := 0; i < len(a); i++ {
		na, ok1 := hexNibble(a[i])
		nb, ok2 := hexNibble(b[i])
		if !ok1 || !ok2 {
			return HashBits
		}
		dist += bits.OnesCount8(na ^ nb)
	}
	return dist
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Hash maps a hex aHash pair to [0,1], 1 = identical.
func Hash(a, b string) float64 {
	sim := 1 - float64(HammingHex(a, b))/float64(HashBits)
	if sim < 0 {
		return 0
	}
	return sim
}

// NormalizeTitle lowercases, collapses internal whitespace and trims, so
// relistings of the same item at a different price compare equal.
func NormalizeTitle(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
