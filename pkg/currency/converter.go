// Package currency converts between the wallet's internal coin units and the
// payment rail's naira/kobo amounts.
//
// Invariants:
//   - Coin amounts are always stored as integers in centicoins (two decimal
//     places of a coin).
//   - Conversion happens only at the rail boundary; the reconciliation engine
//     never sees naira or kobo.
package currency

import "fmt"

// Amount is a coin amount in centicoins (1 coin = 100 centicoins).
type Amount = int64

// ErrInvalidRate is returned when the configured rate is not positive.
var ErrInvalidRate = fmt.Errorf("naira per coin rate must be positive")

// Converter translates between coins, naira and kobo using a configured
// naira-per-coin rate.
type Converter struct {
	nairaPerCoin int64
}

// NewConverter creates a Converter for the given naira-per-coin rate.
func NewConverter(nairaPerCoin int64) (Converter, error) {
	if nairaPerCoin <= 0 {
		return Converter{}, ErrInvalidRate
	}
	return Converter{nairaPerCoin: nairaPerCoin}, nil
}

// CoinsFromNaira converts a naira amount into centicoins.
func (c Converter) CoinsFromNaira(naira int64) Amount {
	return naira * 100 / c.nairaPerCoin
}

// NairaFromCoins converts centicoins into whole naira.
func (c Converter) NairaFromCoins(coins Amount) int64 {
	return coins * c.nairaPerCoin / 100
}

// KoboFromCoins converts centicoins into kobo, the rail's minor unit.
func (c Converter) KoboFromCoins(coins Amount) int64 {
	return coins * c.nairaPerCoin
}

// CoinsFromKobo converts kobo into centicoins.
func (c Converter) CoinsFromKobo(kobo int64) Amount {
	return kobo / c.nairaPerCoin
}

// CoinsFloat renders a centicoin amount as coins for display.
func CoinsFloat(coins Amount) float64 {
	return float64(coins) / 100
}
