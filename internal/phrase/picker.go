// Package phrase picks wording variants for spoken templates.
package phrase

import (
	"math/rand/v2"
	"sync"
)

// Picker chooses among equivalent phrasings. Only wording depends on it,
// never which category of text is produced.
type Picker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPicker returns a picker seeded with seed. A zero seed draws a random one.
func NewPicker(seed uint64) *Picker {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Picker{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Pick returns one of options, or "" when options is empty.
func (p *Picker) Pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[p.Intn(len(options))]
}

// Intn returns a value in [0,n). n must be positive.
func (p *Picker) Intn(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.IntN(n)
}
