package journal

import (
	"path/filepath"
	"testing"
	"time"

	"feedbridge/internal/adapter/enum"
	"feedbridge/internal/model"
	"feedbridge/pkg/conn"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJournal(t *testing.T) *Journal {
	t.Helper()

	client, err := conn.New(conn.Option{Driver: conn.DriverSQLite, Path: filepath.Join(t.TempDir(), "journal.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	j, err := New(client.DB())
	require.NoError(t, err)
	return j
}

func TestRecordAndHistory(t *testing.T) {
	j := newJournal(t)
	orderTime := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	base := model.Trade{
		Type:           enum.OrderTypeFuture,
		Code:           "TXFA4",
		OrderID:        "o1",
		Action:         enum.OrderActionBuy,
		Price:          decimal.NewFromFloat(17500.5),
		RequestedPrice: decimal.NewFromInt(17500),
		Quantity:       2,
		Status:         enum.OrderStatusSubmitted,
		OrderTime:      orderTime,
	}
	j.Record(base)

	filled := base
	filled.Status = enum.OrderStatusFilled
	filled.FilledQuantity = 2
	j.Record(filled)

	other := base
	other.OrderID = "o2"
	j.Record(other)

	history, err := j.History("o1")
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, enum.OrderStatusSubmitted, history[0].Status)
	assert.Equal(t, enum.OrderStatusFilled, history[1].Status)
	assert.EqualValues(t, 2, history[1].FilledQuantity)
	assert.True(t, decimal.NewFromFloat(17500.5).Equal(history[0].Price))
	assert.True(t, orderTime.Equal(history[0].OrderTime))

	none, err := j.History("missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNewRejectsNilDB(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}
