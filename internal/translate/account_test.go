package translate

import (
	"testing"

	"feedbridge/internal/adapter/enum"
	"feedbridge/internal/broker"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKbarsToleratesShortColumns(t *testing.T) {
	bars := Kbars("TXFA4", broker.Kbars{
		Ts:     []int64{1_700_000_000_000_000_000, 1_700_000_060_000_000_000},
		Open:   []float64{100, 101},
		High:   []float64{102, 103},
		Low:    []float64{99, 100},
		Close:  []float64{101},
		Volume: []int64{10, 20},
	})

	require.Len(t, bars, 2)
	assert.Equal(t, "TXFA4", bars[1].Code)
	assert.EqualValues(t, 1_700_000_060, bars[1].KbarTime.Unix())
	assert.True(t, bars[1].Close.IsZero())
	assert.EqualValues(t, 20, bars[1].Volume)
}

func TestFuturePositionDirection(t *testing.T) {
	pos := FuturePosition(broker.FuturePosition{Code: "MXFA4", Direction: broker.ActionSell, Quantity: 3, Pnl: -120.5})
	assert.Equal(t, enum.OrderActionSell, pos.Direction)
	assert.True(t, decimal.NewFromFloat(-120.5).Equal(pos.Pnl))
}

func TestMarginStatus(t *testing.T) {
	m := Margin(broker.Margin{Status: broker.FetchStatusFetched, Equity: 1000})
	assert.Equal(t, enum.FetchStatusFetched, m.Status)
	assert.True(t, decimal.NewFromInt(1000).Equal(m.Equity))
}
