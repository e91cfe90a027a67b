// Package queries contains read-only operations over orders.
package queries

import (
	"errors"
	"math"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery selects one page of orders by id window.
//
// Page p with limit l covers ids in (p*l, (p+1)*l]. Ids are dense from 1, so
// the window lines up with pages as long as no id was skipped.
//
// Example:
//
//	query, err := NewListOrdersQuery(0, 10)
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query) // ids 1..10
type ListOrdersQuery struct {
	page  int64
	limit int64

	guard guard.ConstructorGuard
}

// NewListOrdersQuery validates paging parameters: page >= 0, limit >= 1 and
// (page+1)*limit must fit in int64.
func NewListOrdersQuery(page, limit int64) (ListOrdersQuery, error) {
	if page < 0 {
		return ListOrdersQuery{}, errs.NewValueIsOutOfRangeError("page", page, int64(0), int64(math.MaxInt64))
	}
	if limit < 1 {
		return ListOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, int64(1), int64(math.MaxInt64))
	}

	maxPage := math.MaxInt64/limit - 1
	if page > maxPage {
		return ListOrdersQuery{}, errs.NewValueIsOutOfRangeError("page", page, int64(0), maxPage)
	}

	return ListOrdersQuery{
		page:  page,
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Page() int64 {
	return q.page
}

func (q ListOrdersQuery) Limit() int64 {
	return q.limit
}

// Window returns the exclusive lower and inclusive upper id bounds of the page.
func (q ListOrdersQuery) Window() (lowerExclusive, upperInclusive int64) {
	return q.page * q.limit, (q.page + 1) * q.limit
}

// OrderResponse is the read model of a single order.
type OrderResponse struct {
	ID       int64
	Distance int
	Status   string
}
