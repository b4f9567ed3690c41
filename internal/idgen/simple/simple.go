// Package simple is a counter-backed id generator for tests and seeding.
package simple

import (
	"context"
	"fmt"
	"sync"
)

type Generator struct {
	mu      sync.Mutex
	counter int
}

func New() *Generator {
	//nolint:exhaustruct
	return &Generator{}
}

func (g *Generator) GetID(_ context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.counter++

	return fmt.Sprintf("res-%d", g.counter), nil
}
