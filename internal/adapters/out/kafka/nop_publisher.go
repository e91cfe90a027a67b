package kafka

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// NopPublisher drops every event. It is used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderChanged(context.Context, *order.Order) error { return nil }

func (NopPublisher) Close() error { return nil }
