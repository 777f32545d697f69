// Package core holds the pure race mechanics: scoring, the sentence
// pool and room id allocation. No transport or registry state here.
package core

import (
	"math"
	"strings"

	"typerace/internal/domain"
)

// Score computes wpm and accuracy for one submission.
//
// wpm is floor(words / elapsed * 60) with words split on whitespace runs.
// Accuracy compares characters position by position up to the shorter of
// the two strings; anything past that length is not scored. An empty
// original or a non-positive elapsed time yields the zero result.
func Score(original, typed string, elapsed float64) domain.Result {
	if original == "" || elapsed <= 0 {
		return domain.Result{}
	}

	// elapsed comes off the wire and can be arbitrarily small; cap the
	// rate so the float-to-int conversion stays defined and wpm stays
	// non-negative.
	words := len(strings.Fields(typed))
	rate := float64(words) / elapsed * 60
	var wpm int
	if rate >= math.MaxInt {
		wpm = math.MaxInt
	} else {
		wpm = int(rate)
	}

	or, tr := []rune(original), []rune(typed)
	n := len(or)
	if len(tr) < n {
		n = len(tr)
	}
	correct := 0
	for i := 0; i < n; i++ {
		if or[i] == tr[i] {
			correct++
		}
	}
	accuracy := float64(correct) / float64(len(or)) * 100
	accuracy = math.Round(accuracy*100) / 100

	return domain.Result{WPM: wpm, Accuracy: accuracy}
}
