package promo

import "errors"

var (
	ErrPromoCodeExpired = errors.New("promo code expired")
	ErrPromoCodeUnknown = errors.New("promo code unknown")
)
