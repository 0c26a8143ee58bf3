package currency_test

import (
	"testing"

	"github.com/chessstake/wallet/pkg/currency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConverter_RejectsNonPositiveRate(t *testing.T) {
	_, err := currency.NewConverter(0)
	assert.ErrorIs(t, err, currency.ErrInvalidRate)
	_, err = currency.NewConverter(-1000)
	assert.ErrorIs(t, err, currency.ErrInvalidRate)
}

func TestConverter_RoundTrips(t *testing.T) {
	c, err := currency.NewConverter(1000)
	require.NoError(t, err)

	// 5000 naira at 1000 naira/coin buys 5 coins (500 centicoins).
	coins := c.CoinsFromNaira(5000)
	assert.Equal(t, int64(500), coins)
	assert.Equal(t, int64(5000), c.NairaFromCoins(coins))

	// The rail reports kobo; 500000 kobo is 5000 naira.
	assert.Equal(t, int64(500000), c.KoboFromCoins(coins))
	assert.Equal(t, coins, c.CoinsFromKobo(500000))
}

func TestCoinsFloat(t *testing.T) {
	assert.Equal(t, 5.0, currency.CoinsFloat(500))
	assert.Equal(t, 0.01, currency.CoinsFloat(1))
	assert.Equal(t, 0.0, currency.CoinsFloat(0))
}
