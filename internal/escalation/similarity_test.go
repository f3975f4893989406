package escalation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "where is the blue pump", "where is the blue pump", 1},
		{"case and spacing", "Where  is\tthe pump", "where is the PUMP", 1},
		{"disjoint", "hello there", "good morning", 0},
		{"partial", "a b c d", "a b c e", 3.0 / 5.0},
		{"both empty", "", "", 0},
		{"whitespace only", "   ", "\n", 0},
		{"one empty", "hello", "", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Similarity(tc.a, tc.b), 1e-9)
		})
	}
}

func TestSimilarityIsSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"is the pump in stock", "is the filter in stock"},
		{"وين طلبي", "طلبي وين الان"},
		{"", "something"},
	}
	for _, p := range pairs {
		assert.Equal(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]))
	}
}

func TestSimilarityIdenticalNonEmptyIsOne(t *testing.T) {
	for _, s := range []string{"a", "ok thanks", "هذا سيء جداً", "x y x y"} {
		assert.Equal(t, 1.0, Similarity(s, s), s)
	}
}
