// Package promo applies flat promotional discounts to a reservation quote.
// Occupancy-based and seasonal pricing are deliberately not here; they are
// a future extension of the query layer, not a discount.
package promo

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oblipix/viagemimpacta/internal/inventory"
)

type Manager struct {
	mu    sync.RWMutex
	codes map[string]*Code
}

func New() *Manager {
	return &Manager{
		codes: make(map[string]*Code),
	}
}

type Code struct {
	Code               string
	DiscountPercentage float64
	ValidThrough       time.Time
}

func (p *Code) Apply(c *inventory.Confirmation) error {
	if time.Now().UTC().After(p.ValidThrough) {
		return fmt.Errorf("promo code %s expired: %w", p.Code, ErrPromoCodeExpired)
	}

	c.TotalPrice -= c.TotalPrice * p.DiscountPercentage / 100 //nolint:gomnd

	return nil
}

// LoyaltyDiscount is a flat amount off the quote. The result never goes
// below zero.
type LoyaltyDiscount struct {
	CustomerID     string
	DiscountAmount float64
	ValidThrough   time.Time
}

func (l *LoyaltyDiscount) Apply(c *inventory.Confirmation) error {
	if time.Now().UTC().After(l.ValidThrough) {
		return fmt.Errorf("loyalty discount for %s expired: %w", l.CustomerID, ErrPromoCodeExpired)
	}

	c.TotalPrice -= l.DiscountAmount
	if c.TotalPrice < 0 {
		c.TotalPrice = 0
	}

	return nil
}

func (m *Manager) Register(code *Code) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.codes[strings.ToLower(code.Code)] = code
}

// Strategies resolves a promo code from a booking request into the
// strategies to apply to its quote. An unknown code fails.
func (m *Manager) Strategies(_ context.Context, code string) ([]inventory.PromoStrategy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.codes[strings.ToLower(code)]
	if !ok {
		return nil, fmt.Errorf("promo code %s: %w", code, ErrPromoCodeUnknown)
	}

	return []inventory.PromoStrategy{c}, nil
}
