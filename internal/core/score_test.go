package core_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"typerace/internal/core"
	"typerace/internal/domain"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		original string
		typed    string
		elapsed  float64
		want     domain.Result
	}{
		{
			name:     "perfect run",
			original: "Hello world example.",
			typed:    "Hello world example.",
			elapsed:  3.0,
			want:     domain.Result{WPM: 60, Accuracy: 100},
		},
		{
			name:     "zero elapsed",
			original: "abc",
			typed:    "abc",
			elapsed:  0,
			want:     domain.Result{},
		},
		{
			name:     "negative elapsed",
			original: "abc",
			typed:    "abc",
			elapsed:  -1,
			want:     domain.Result{},
		},
		{
			name:     "empty original",
			original: "",
			typed:    "abc",
			elapsed:  3,
			want:     domain.Result{},
		},
		{
			name:     "empty submission",
			original: "abcd",
			typed:    "",
			elapsed:  4,
			want:     domain.Result{WPM: 0, Accuracy: 0},
		},
		{
			name:     "half the characters wrong",
			original: "aaaa",
			typed:    "aabb",
			elapsed:  60,
			want:     domain.Result{WPM: 1, Accuracy: 50},
		},
		{
			name:     "trailing extra characters are not scored",
			original: "ab",
			typed:    "abxyz",
			elapsed:  60,
			want:     domain.Result{WPM: 1, Accuracy: 100},
		},
		{
			name:     "shorter submission only scores typed positions",
			original: "abcdef",
			typed:    "abc",
			elapsed:  60,
			want:     domain.Result{WPM: 1, Accuracy: 50},
		},
		{
			name:     "wpm floors fractional rates",
			original: "one two three",
			typed:    "one two three",
			elapsed:  25,
			want:     domain.Result{WPM: 7, Accuracy: 100},
		},
		{
			name:     "accuracy rounds to two decimals",
			original: "aab",
			typed:    "aax",
			elapsed:  60,
			want:     domain.Result{WPM: 1, Accuracy: 66.67},
		},
		{
			name:     "whitespace runs collapse for word count",
			original: "a b",
			typed:    "a   b",
			elapsed:  60,
			want:     domain.Result{WPM: 2, Accuracy: 66.67},
		},
		{
			name:     "tiny elapsed clamps wpm instead of overflowing",
			original: "Hello world example.",
			typed:    "Hello world example.",
			elapsed:  1e-300,
			want:     domain.Result{WPM: math.MaxInt, Accuracy: 100},
		},
		{
			name:     "multibyte characters compare per character",
			original: "héllo wörld",
			typed:    "héllo wörld",
			elapsed:  60,
			want:     domain.Result{WPM: 2, Accuracy: 100},
		},
		{
			name:     "multibyte mismatch counts one position",
			original: "ab≠c",
			typed:    "ab=c",
			elapsed:  60,
			want:     domain.Result{WPM: 1, Accuracy: 75},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.Score(tt.original, tt.typed, tt.elapsed)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreBounds(t *testing.T) {
	originals := []string{"", "x", "Practice makes perfect.", "aaaa bbbb cccc"}
	typed := []string{"", "x", "Practice makes perfect.", "totally different text entirely"}
	elapsed := []float64{-3, 0, 1e-300, 0.5, 3, 120}

	for _, o := range originals {
		for _, ty := range typed {
			for _, e := range elapsed {
				res := core.Score(o, ty, e)
				assert.GreaterOrEqual(t, res.WPM, 0)
				assert.GreaterOrEqual(t, res.Accuracy, 0.0)
				assert.LessOrEqual(t, res.Accuracy, 100.0)
			}
		}
	}
}
