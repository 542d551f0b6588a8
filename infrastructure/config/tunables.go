package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"polymath-backend/domain/services"
)

// tunablesFile is the on-disk shape of the ranking weights.
type tunablesFile struct {
	Lexical      services.LexicalWeights `yaml:"lexical"`
	VectorWeight float64                 `yaml:"vector_weight"`
}

// Tunables holds the live ranking weights. Reads are lock-guarded so the
// watcher can swap them under running searches.
type Tunables struct {
	mu      sync.RWMutex
	lexical services.LexicalWeights
	vector  float64
}

// NewTunables returns tunables at the built-in defaults.
func NewTunables() *Tunables {
	return &Tunables{
		lexical: services.DefaultLexicalWeights(),
		vector:  100,
	}
}

// LexicalWeights returns the current lexical scoring table.
func (t *Tunables) LexicalWeights() services.LexicalWeights {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lexical
}

// VectorWeight returns the current cosine-similarity scale factor.
func (t *Tunables) VectorWeight() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.vector
}

// LoadFile replaces the live weights with the file's contents. Zero-valued
// fields keep their defaults so a partial file stays sane.
func (t *Tunables) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read tunables: %w", err)
	}

	parsed := tunablesFile{
		Lexical:      services.DefaultLexicalWeights(),
		VectorWeight: 100,
	}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parse tunables: %w", err)
	}
	if parsed.VectorWeight < 0 {
		return fmt.Errorf("parse tunables: vector_weight must be non-negative")
	}

	t.mu.Lock()
	t.lexical = parsed.Lexical
	t.vector = parsed.VectorWeight
	t.mu.Unlock()
	return nil
}
