package usecases

import (
	"fmt"
	"math/big"

	"zk-tipping.backend/internal/config"
	domainerrors "zk-tipping.backend/internal/domain/errors"
)

// Bounds holds the parsed subscription term bounds. Amounts are wei; both
// edges of each range are inclusive.
type Bounds struct {
	MinAmount   *big.Int
	MaxAmount   *big.Int
	MinInterval int64
	MaxInterval int64
}

// NewBounds parses the configured bounds
func NewBounds(cfg config.BoundsConfig) (Bounds, error) {
	minAmount, ok := new(big.Int).SetString(cfg.MinAmount, 10)
	if !ok {
		return Bounds{}, fmt.Errorf("invalid MIN_AMOUNT %q", cfg.MinAmount)
	}
	maxAmount, ok := new(big.Int).SetString(cfg.MaxAmount, 10)
	if !ok {
		return Bounds{}, fmt.Errorf("invalid MAX_AMOUNT %q", cfg.MaxAmount)
	}
	return Bounds{
		MinAmount:   minAmount,
		MaxAmount:   maxAmount,
		MinInterval: cfg.MinInterval,
		MaxInterval: cfg.MaxInterval,
	}, nil
}

// ValidateAmount checks an amount string against [MinAmount, MaxAmount]
func (b Bounds) ValidateAmount(amount string) (*big.Int, error) {
	value, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		return nil, domainerrors.ErrAmountOutOfBounds
	}
	if value.Cmp(b.MinAmount) < 0 || value.Cmp(b.MaxAmount) > 0 {
		return nil, domainerrors.ErrAmountOutOfBounds
	}
	return value, nil
}

// ValidateInterval checks an interval against [MinInterval, MaxInterval]
func (b Bounds) ValidateInterval(intervalSeconds int64) error {
	if intervalSeconds < b.MinInterval || intervalSeconds > b.MaxInterval {
		return domainerrors.ErrIntervalOutOfBounds
	}
	return nil
}
