// Package journal appends every published order record to a database. It is
// an audit trail and is never read back into the order cache.
package journal

import (
	"time"

	"feedbridge/internal/adapter/enum"
	"feedbridge/internal/model"

	"github.com/shopspring/decimal"
	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
	"gorm.io/gorm"
)

// OrderRecord is one observation of an order.
type OrderRecord struct {
	ID             uint64           `gorm:"primaryKey;autoIncrement"`
	OrderID        string           `gorm:"size:64;index"`
	Code           string           `gorm:"size:32"`
	Type           enum.OrderType   `gorm:"not null"`
	Action         enum.OrderAction `gorm:"not null"`
	Status         enum.OrderStatus `gorm:"not null"`
	Price          decimal.Decimal  `gorm:"type:numeric"`
	RequestedPrice decimal.Decimal  `gorm:"type:numeric"`
	Quantity       int64
	FilledQuantity int64
	OrderTime      time.Time
	ObservedAt     time.Time `gorm:"index"`
}

func (OrderRecord) TableName() string {
	return "order_records"
}

// Journal writes order records through gorm.
type Journal struct {
	db  *gorm.DB
	now func() time.Time
}

// New migrates the schema and returns a journal.
func New(db *gorm.DB) (*Journal, error) {
	if db == nil {
		return nil, errors.New("journal: nil db")
	}
	if err := db.AutoMigrate(&OrderRecord{}); err != nil {
		return nil, errors.Wrap(err, "migrate order records")
	}
	return &Journal{db: db, now: time.Now}, nil
}

// Record appends t. Failures are logged and swallowed.
func (j *Journal) Record(t model.Trade) {
	rec := OrderRecord{
		OrderID:        t.OrderID,
		Code:           t.Code,
		Type:           t.Type,
		Action:         t.Action,
		Status:         t.Status,
		Price:          t.Price,
		RequestedPrice: t.RequestedPrice,
		Quantity:       t.Quantity,
		FilledQuantity: t.FilledQuantity,
		OrderTime:      t.OrderTime,
		ObservedAt:     j.now(),
	}
	if err := j.db.Create(&rec).Error; err != nil {
		logs.Errorf("journal order %s, err: %+v", t.OrderID, err)
	}
}

// History returns every observation of orderID, oldest first.
func (j *Journal) History(orderID string) ([]model.Trade, error) {
	var recs []OrderRecord
	if err := j.db.Where("order_id = ?", orderID).Order("id ASC").Find(&recs).Error; err != nil {
		return nil, errors.Wrapf(err, "query order %s", orderID)
	}

	out := make([]model.Trade, 0, len(recs))
	for _, r := range recs {
		out = append(out, model.Trade{
			Type:           r.Type,
			Code:           r.Code,
			OrderID:        r.OrderID,
			Action:         r.Action,
			Price:          r.Price,
			RequestedPrice: r.RequestedPrice,
			Quantity:       r.Quantity,
			FilledQuantity: r.FilledQuantity,
			Status:         r.Status,
			OrderTime:      r.OrderTime,
		})
	}
	return out, nil
}
