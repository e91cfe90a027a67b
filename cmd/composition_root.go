package cmd

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/distancecache"
	"dispatch/internal/adapters/out/distancematrix"
	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/metrics"
)

// CompositionRoot wires adapters into use-case handlers.
type CompositionRoot struct {
	cfg        Config
	logger     *slog.Logger
	uowFactory ports.UnitOfWorkFactory
	resolver   ports.DistanceResolver
}

// NewCompositionRoot selects the order store by cfg.StorageDriver and builds the
// distance resolver chain. gormDB is only used by the postgres driver and
// redisClient may be nil to disable distance caching.
func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	redisClient redis.UniversalClient,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) CompositionRoot {
	if logger == nil {
		logger = slog.Default()
	}

	var uowFactory ports.UnitOfWorkFactory
	switch cfg.StorageDriver {
	case StorageDriverMemory:
		uowFactory = memory.NewStore(publisher, logger)
	default:
		uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, publisher, logger)
	}

	var resolver ports.DistanceResolver = distancematrix.NewClient(
		cfg.DistanceMatrixURL,
		cfg.APIKey,
		distancematrix.WithTracer(otel.Tracer("dispatch/distancematrix")),
		distancematrix.WithObserver(metrics.DistanceObserver{}),
	)
	if redisClient != nil {
		resolver = distancecache.NewResolver(resolver, redisClient, cfg.DistanceCacheTTL, logger)
	}

	return CompositionRoot{
		cfg:        cfg,
		logger:     logger,
		uowFactory: uowFactory,
		resolver:   resolver,
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.resolver, c.cfg.DistanceTimeout)
}

func (c *CompositionRoot) CreateTakeOrderCommandHandler() commands.TakeOrderCommandHandler {
	return commands.NewTakeOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateCountUnassignedOrdersQueryHandler() queries.CountUnassignedOrdersQueryHandler {
	return queries.NewCountUnassignedOrdersQueryHandler(c.uowFactory)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateTakeOrderCommandHandler(),
		c.CreateListOrdersQueryHandler(),
		c.CreateGetOrderQueryHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateCountUnassignedOrdersQueryHandler(),
		metrics.UnassignedOrders,
		c.cfg.BacklogJobSchedule,
		c.logger,
	)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
