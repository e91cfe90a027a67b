package orderrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// pgLockNotAvailable is the SQLSTATE raised by NOWAIT when the row is already locked.
const pgLockNotAvailable = "55P03"

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(aggregate *order.Order)
}

type noopTracker struct{}

func (noopTracker) TrackAggregate(*order.Order) {}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	if tracker == nil {
		tracker = noopTracker{}
	}
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a new order and binds the generated id to the aggregate.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if aggregate.ID() != 0 {
		return errs.NewValueIsInvalidErrorWithCause("order", fmt.Errorf("order %d is already persisted", aggregate.ID()))
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	if err := aggregate.BindID(dto.ID); err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate)
	return nil
}

// Update writes the current status of an existing order.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", aggregate.ID()).
		Update("status", aggregate.Status().String())
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID())
	}

	r.tracker.TrackAggregate(aggregate)
	return nil
}

// Get retrieves an order by ID without locking.
func (r *GormOrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	var dto OrderDTO
	if err := r.db.WithContext(ctx).Take(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListInRange retrieves orders with lowerExclusive < id <= upperInclusive, ascending by id.
func (r *GormOrderRepository) ListInRange(
	ctx context.Context,
	lowerExclusive, upperInclusive int64,
) ([]*order.Order, error) {
	orders := make([]*order.Order, 0)
	if upperInclusive <= lowerExclusive {
		return orders, nil
	}

	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).
		Where("id > ? AND id <= ?", lowerExclusive, upperInclusive).
		Order("id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// GetUnassignedForUpdate issues
//
//	SELECT * FROM orders WHERE id = ? AND status = 'UNASSIGNED' LIMIT 1 FOR UPDATE NOWAIT
//
// The status filter and the lock are one statement, so a row that another
// transaction already took is simply not returned.
func (r *GormOrderRepository) GetUnassignedForUpdate(ctx context.Context, id int64) (*order.Order, error) {
	if _, ok := r.db.Statement.ConnPool.(gorm.TxCommitter); !ok {
		return nil, ports.ErrTransactionRequired
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "NOWAIT"}).
		Where("id = ? AND status = ?", id, order.Unassigned.String()).
		Take(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id)
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable {
			return nil, fmt.Errorf("order %d: %w", id, ports.ErrRecordLocked)
		}
		return nil, err
	}

	return toDomain(dto)
}

// CountUnassigned counts orders still waiting for a worker.
func (r *GormOrderRepository) CountUnassigned(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("status = ?", order.Unassigned.String()).
		Count(&count).Error
	return count, err
}
