// Package orderrepo persists order aggregates in PostgreSQL through GORM and
// provides the row-locking read used by the order claim protocol.
package orderrepo

import (
	"dispatch/internal/core/domain/model/order"
)

// OrderDTO is the row layout of the orders table.
// Status is stored by name so rows stay readable outside the service.
type OrderDTO struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Distance int    `gorm:"not null;check:distance >= 0"`
	Status   string `gorm:"type:varchar(20);not null;index"`
}

// TableName overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	return OrderDTO{
		ID:       aggregate.ID(),
		Distance: aggregate.Distance(),
		Status:   aggregate.Status().String(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(dto.ID, dto.Distance, status)
}
