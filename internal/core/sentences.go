package core

import "math/rand/v2"

var defaultSentences = []string{
	"The quick brown fox jumps over the lazy dog.",
	"Practice makes perfect.",
	"Keep your friends close.",
	"Simplicity is key.",
	"Hello world example.",
}

// SentencePool is an immutable set of race sentences. Pick is safe for
// concurrent use; the pool itself never changes after construction.
type SentencePool struct {
	sentences []string
}

// NewSentencePool copies the given sentences, falling back to the
// built-in set when none are configured.
func NewSentencePool(sentences []string) *SentencePool {
	if len(sentences) == 0 {
		sentences = defaultSentences
	}
	out := make([]string, len(sentences))
	copy(out, sentences)
	return &SentencePool{sentences: out}
}

// Pick returns a uniformly random sentence.
func (p *SentencePool) Pick() string {
	return p.sentences[rand.IntN(len(p.sentences))]
}

func (p *SentencePool) Len() int { return len(p.sentences) }

// Contains reports whether s is one of the pool's sentences.
func (p *SentencePool) Contains(s string) bool {
	for _, cand := range p.sentences {
		if cand == s {
			return true
		}
	}
	return false
}
