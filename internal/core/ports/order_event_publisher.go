package ports

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// OrderEventPublisher announces order state that has already been committed.
type OrderEventPublisher interface {
	PublishOrderChanged(ctx context.Context, aggregate *order.Order) error
}
