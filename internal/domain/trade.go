package domain

import "fmt"

// Trade is the repair domain a request or intervention belongs to.
// It is a hard partition for matching: entries of a different trade
// never contribute to similarity.
type Trade string

const (
	TradeLocksmith  Trade = "locksmith"
	TradePlumbing   Trade = "plumbing"
	TradeElectrical Trade = "electrical"
)

// AllTrades lists every supported trade in a stable order.
func AllTrades() []Trade {
	return []Trade{TradeLocksmith, TradePlumbing, TradeElectrical}
}

// ParseTrade validates a raw trade value.
func ParseTrade(s string) (Trade, error) {
	switch Trade(s) {
	case TradeLocksmith, TradePlumbing, TradeElectrical:
		return Trade(s), nil
	default:
		return "", fmt.Errorf("%w: unknown trade %q", ErrValidation, s)
	}
}

// String implements fmt.Stringer.
func (t Trade) String() string { return string(t) }
