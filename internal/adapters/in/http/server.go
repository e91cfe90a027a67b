package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/metrics"
	"dispatch/internal/pkg/errs"
)

const (
	msgMissingArguments   = "Missing required arguments."
	msgInvalidCoordinates = "Invalid coordinates."
	msgInvalidValues      = "Invalid values."
	msgInvalidStatus      = "Invalid status."
	msgOrderNotFound      = "The order doesn't exist."
	msgOrderTaken         = "Oops! The order has been taken."
	msgInternalError      = "Internal server error"

	statusSuccess = "SUCCESS"
)

// Order is the wire representation of an order.
type Order struct {
	ID       int64  `json:"id"`
	Distance int    `json:"distance"`
	Status   string `json:"status"`
}

// Error is the body of every non-2xx response.
type Error struct {
	Error string `json:"error"`
}

// TakeOrderResult is the body of a successful claim.
type TakeOrderResult struct {
	Status string `json:"status"`
}

// createOrderRequest holds the decoded JSON values as they arrived; a present
// key of the wrong shape is a coordinate error, not a missing argument.
type createOrderRequest struct {
	Origin      any `validate:"coordinate"`
	Destination any `validate:"coordinate"`
}

type listOrdersRequest struct {
	Page  string `query:"page" validate:"int_gte=0"`
	Limit string `query:"limit" validate:"int_gte=1"`
}

type takeOrderRequest struct {
	Status string `json:"status" validate:"required,eq=TAKEN"`
}

// Server serves the order API on top of the application use cases.
type Server struct {
	createOrderHandler commands.CreateOrderCommandHandler
	takeOrderHandler   commands.TakeOrderCommandHandler

	listOrdersHandler queries.ListOrdersQueryHandler
	getOrderHandler   queries.GetOrderQueryHandler

	validate *validator.Validate
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	takeOrderHandler commands.TakeOrderCommandHandler,
	listOrdersHandler queries.ListOrdersQueryHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		createOrderHandler: createOrderHandler,
		takeOrderHandler:   takeOrderHandler,
		listOrdersHandler:  listOrdersHandler,
		getOrderHandler:    getOrderHandler,
		validate:           newValidator(),
		logger:             logger.With("component", "http"),
	}
}

// RegisterRoutes mounts the order endpoints on e.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.POST("/orders", s.CreateOrder)
	e.GET("/orders", s.ListOrders)
	e.GET("/orders/:id", s.GetOrder)
	e.PATCH("/orders/:id", s.TakeOrder)
}

// CreateOrder handles POST /orders.
//
//	@Summary	Create an order
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	Order
//	@Failure	400	{object}	Error
//	@Router		/orders [post]
func (s *Server) CreateOrder(c echo.Context) error {
	var body map[string]any
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, Error{Error: msgMissingArguments})
	}
	origin, hasOrigin := body["origin"]
	destination, hasDestination := body["destination"]
	if !hasOrigin || !hasDestination {
		return c.JSON(http.StatusBadRequest, Error{Error: msgMissingArguments})
	}

	req := createOrderRequest{Origin: origin, Destination: destination}
	if err := s.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, Error{Error: msgInvalidCoordinates})
	}

	originPoint, err := geoPointOf(req.Origin)
	if err != nil {
		return c.JSON(http.StatusBadRequest, Error{Error: msgInvalidCoordinates})
	}
	destinationPoint, err := geoPointOf(req.Destination)
	if err != nil {
		return c.JSON(http.StatusBadRequest, Error{Error: msgInvalidCoordinates})
	}

	cmd, err := commands.NewCreateOrderCommand(originPoint, destinationPoint)
	if err != nil {
		return c.JSON(http.StatusBadRequest, Error{Error: msgInvalidCoordinates})
	}

	ctx := c.Request().Context()
	created, err := s.createOrderHandler.Handle(ctx, cmd)
	if err != nil {
		var resolutionErr *ports.DistanceResolutionError
		if errors.As(err, &resolutionErr) {
			s.logger.InfoContext(ctx, "distance resolution failed",
				"origin", originPoint.String(),
				"destination", destinationPoint.String(),
				"diagnostic", resolutionErr.Diagnostic,
			)
			return c.JSON(http.StatusBadRequest, Error{Error: resolutionErr.Diagnostic})
		}
		return s.internalError(c, "create order", err)
	}

	metrics.OrdersCreatedTotal.Inc()
	s.logger.InfoContext(ctx, "order created", "order_id", created.ID(), "distance", created.Distance())

	return c.JSON(http.StatusOK, Order{
		ID:       created.ID(),
		Distance: created.Distance(),
		Status:   created.Status().String(),
	})
}

// ListOrders handles GET /orders?page=&limit=.
//
//	@Summary	List a page of orders
//	@Produce	json
//	@Param		page	query		int	true	"zero-based page"
//	@Param		limit	query		int	true	"page size"
//	@Success	200		{array}		Order
//	@Failure	400		{object}	Error
//	@Router		/orders [get]
func (s *Server) ListOrders(c echo.Context) error {
	params := c.QueryParams()
	if !params.Has("page") || !params.Has("limit") {
		return c.JSON(http.StatusBadRequest, Error{Error: msgMissingArguments})
	}

	req := listOrdersRequest{Page: params.Get("page"), Limit: params.Get("limit")}
	if err := s.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, Error{Error: msgInvalidValues})
	}

	page, limit, err := parsePaging(req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, Error{Error: msgInvalidValues})
	}
	query, err := queries.NewListOrdersQuery(page, limit)
	if err != nil {
		return c.JSON(http.StatusBadRequest, Error{Error: msgInvalidValues})
	}

	orders, err := s.listOrdersHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return s.internalError(c, "list orders", err)
	}

	response := make([]Order, len(orders))
	for i, o := range orders {
		response[i] = Order{ID: o.ID, Distance: o.Distance, Status: o.Status}
	}
	return c.JSON(http.StatusOK, response)
}

// GetOrder handles GET /orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	id, ok := orderIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, Error{Error: msgOrderNotFound})
	}

	o, err := s.getOrderHandler.Handle(c.Request().Context(), queries.NewGetOrderQuery(id))
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) || errors.Is(err, errs.ErrValueIsOutOfRange) {
			return c.JSON(http.StatusBadRequest, Error{Error: msgOrderNotFound})
		}
		return s.internalError(c, "get order", err)
	}

	return c.JSON(http.StatusOK, Order{ID: o.ID, Distance: o.Distance, Status: o.Status})
}

// TakeOrder handles PATCH /orders/:id. The body is required and must be
// {"status":"TAKEN"}; anything else is rejected with "Invalid status."
//
//	@Summary	Claim an unassigned order
//	@Accept		json
//	@Produce	json
//	@Param		id	path		int	true	"order id"
//	@Success	200	{object}	TakeOrderResult
//	@Failure	400	{object}	Error
//	@Router		/orders/{id} [patch]
func (s *Server) TakeOrder(c echo.Context) error {
	id, ok := orderIDParam(c)
	if !ok {
		metrics.OrderClaimsTotal.WithLabelValues(metrics.ClaimNotFound).Inc()
		return c.JSON(http.StatusBadRequest, Error{Error: msgOrderNotFound})
	}

	var req takeOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, Error{Error: msgInvalidStatus})
	}
	if err := s.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, Error{Error: msgInvalidStatus})
	}

	cmd, err := commands.NewTakeOrderCommand(id)
	if err != nil {
		metrics.OrderClaimsTotal.WithLabelValues(metrics.ClaimNotFound).Inc()
		return c.JSON(http.StatusBadRequest, Error{Error: msgOrderNotFound})
	}

	ctx := c.Request().Context()
	err = s.takeOrderHandler.Handle(ctx, cmd)
	switch {
	case err == nil:
		metrics.OrderClaimsTotal.WithLabelValues(metrics.ClaimSuccess).Inc()
		s.logger.InfoContext(ctx, "order taken", "order_id", id)
		return c.JSON(http.StatusOK, TakeOrderResult{Status: statusSuccess})
	case errors.Is(err, errs.ErrObjectNotFound):
		metrics.OrderClaimsTotal.WithLabelValues(metrics.ClaimNotFound).Inc()
		s.logger.InfoContext(ctx, "claim rejected", "order_id", id, "reason", "not found")
		return c.JSON(http.StatusBadRequest, Error{Error: msgOrderNotFound})
	case errors.Is(err, order.ErrOrderAlreadyTaken):
		metrics.OrderClaimsTotal.WithLabelValues(metrics.ClaimAlreadyTaken).Inc()
		s.logger.InfoContext(ctx, "claim rejected", "order_id", id, "reason", "already taken")
		return c.JSON(http.StatusBadRequest, Error{Error: msgOrderTaken})
	default:
		metrics.OrderClaimsTotal.WithLabelValues(metrics.ClaimError).Inc()
		return s.internalError(c, "take order", err)
	}
}

func (s *Server) internalError(c echo.Context, op string, err error) error {
	s.logger.ErrorContext(c.Request().Context(), op+" failed", "error", err)
	return c.JSON(http.StatusInternalServerError, Error{Error: msgInternalError})
}

func orderIDParam(c echo.Context) (int64, bool) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &id,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

func geoPointOf(raw any) (kernel.GeoPoint, error) {
	pair, ok := raw.([]any)
	if !ok || len(pair) != 2 {
		return kernel.GeoPoint{}, errors.New("coordinate is not a pair")
	}
	lat, _ := pair[0].(string)
	lng, _ := pair[1].(string)
	return kernel.NewGeoPoint(lat, lng)
}
