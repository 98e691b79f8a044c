package responses

import (
	"math/rand"
	"sync"
)

// Picker chooses random replies from the response tables. The randomness
// source is injected so tests can seed it for deterministic output.
type Picker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPicker creates a Picker around the given source. The source must not be
// shared with other consumers; Picker serializes access itself.
func NewPicker(rng *rand.Rand) *Picker {
	return &Picker{rng: rng}
}

// Pick returns one of the options at random, or "" for an empty list.
func (p *Picker) Pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return options[p.rng.Intn(len(options))]
}

// Sometimes reports true with the given probability. Odds at or below 0
// never fire; odds at or above 1 always fire.
func (p *Picker) Sometimes(odds float64) bool {
	if odds <= 0 {
		return false
	}
	if odds >= 1 {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Float64() < odds
}
