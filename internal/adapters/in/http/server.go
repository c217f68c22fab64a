// Package http exposes the route planning and execution API over HTTP.
// Handlers translate requests into commands and queries, delegate to the
// application layer, and map domain errors to status codes.
package http

import (
	"errors"
	"net/http"
	"time"

	"routing/internal/core/application/usecases/commands"
	"routing/internal/core/application/usecases/queries"
	"routing/internal/core/domain/model/kernel"
	"routing/internal/core/domain/model/route"
	"routing/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server implements the HTTP handlers for route management.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createRouteHandler       commands.CreateRouteCommandHandler
	startRouteHandler        commands.StartRouteCommandHandler
	markStopDeliveredHandler commands.MarkStopDeliveredCommandHandler
	markStopFailedHandler    commands.MarkStopFailedCommandHandler
	markStopSkippedHandler   commands.MarkStopSkippedCommandHandler

	// Query handlers
	getRouteHandler        queries.GetRouteQueryHandler
	getActiveRoutesHandler queries.GetActiveRoutesQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createRouteHandler commands.CreateRouteCommandHandler,
	startRouteHandler commands.StartRouteCommandHandler,
	markStopDeliveredHandler commands.MarkStopDeliveredCommandHandler,
	markStopFailedHandler commands.MarkStopFailedCommandHandler,
	markStopSkippedHandler commands.MarkStopSkippedCommandHandler,
	getRouteHandler queries.GetRouteQueryHandler,
	getActiveRoutesHandler queries.GetActiveRoutesQueryHandler,
) *Server {
	return &Server{
		createRouteHandler:       createRouteHandler,
		startRouteHandler:        startRouteHandler,
		markStopDeliveredHandler: markStopDeliveredHandler,
		markStopFailedHandler:    markStopFailedHandler,
		markStopSkippedHandler:   markStopSkippedHandler,
		getRouteHandler:          getRouteHandler,
		getActiveRoutesHandler:   getActiveRoutesHandler,
	}
}

// RegisterRoutes attaches all API routes to the given echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/routes", s.CreateRoute)
	api.GET("/routes/active", s.GetActiveRoutes)
	api.GET("/routes/:routeId", s.GetRoute)
	api.POST("/routes/:routeId/start", s.StartRoute)
	api.POST("/routes/:routeId/stops/:stopId/delivered", s.MarkStopDelivered)
	api.POST("/routes/:routeId/stops/:stopId/failed", s.MarkStopFailed)
	api.POST("/routes/:routeId/stops/:stopId/skipped", s.MarkStopSkipped)
}

// ErrorResponse is the error body returned by every failing endpoint.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type createRouteRequest struct {
	DelivererID string   `json:"delivererId"`
	OrderIDs    []string `json:"orderIds"`
	RouteSide   string   `json:"routeSide,omitempty"`
}

type stopResponse struct {
	StopID        string  `json:"stopId"`
	Sequence      int     `json:"sequence"`
	Status        string  `json:"status"`
	OrderID       string  `json:"orderId"`
	OrderNumber   string  `json:"orderNumber"`
	CustomerName  string  `json:"customerName"`
	Phone         string  `json:"phone,omitempty"`
	Street        string  `json:"street,omitempty"`
	DeliveredAt   *string `json:"deliveredAt,omitempty"`
	FailedAt      *string `json:"failedAt,omitempty"`
	FailureReason string  `json:"failureReason,omitempty"`
}

type routeResponse struct {
	RouteID     string         `json:"routeId"`
	Number      string         `json:"number"`
	Status      string         `json:"status"`
	DelivererID *string        `json:"delivererId,omitempty"`
	TotalStops  int            `json:"totalStops"`
	StartedAt   *string        `json:"startedAt,omitempty"`
	CompletedAt *string        `json:"completedAt,omitempty"`
	Stops       []stopResponse `json:"stops"`
}

type activeRouteResponse struct {
	RouteID        string  `json:"routeId"`
	Number         string  `json:"number"`
	Status         string  `json:"status"`
	DelivererID    *string `json:"delivererId,omitempty"`
	TotalStops     int     `json:"totalStops"`
	FinalizedStops int     `json:"finalizedStops"`
	StartedAt      *string `json:"startedAt,omitempty"`
}

type startRouteResponse struct {
	RouteID     string `json:"routeId"`
	RouteNumber string `json:"routeNumber"`
	OldStatus   string `json:"oldStatus"`
	NewStatus   string `json:"newStatus"`
	StartedAt   string `json:"startedAt"`
}

type stopTransitionResponse struct {
	RouteID          string  `json:"routeId"`
	StopID           string  `json:"stopId"`
	OldStatus        string  `json:"oldStatus"`
	NewStatus        string  `json:"newStatus"`
	DeliveredAt      *string `json:"deliveredAt,omitempty"`
	FailedAt         *string `json:"failedAt,omitempty"`
	RouteCompleted   bool    `json:"routeCompleted"`
	RouteCompletedAt *string `json:"routeCompletedAt,omitempty"`
}

type failStopRequest struct {
	Reason string `json:"reason"`
}

type skipStopRequest struct {
	Reason       string `json:"reason,omitempty"`
	RequeueOrder bool   `json:"requeueOrder,omitempty"`
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// CreateRoute handles POST /api/v1/routes - plans a route over ready orders.
func (s *Server) CreateRoute(ctx echo.Context) error {
	var req createRouteRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	delivererID, err := kernel.UUIDFromString(req.DelivererID)
	if err != nil {
		return badRequest(ctx, "Invalid deliverer ID: "+err.Error())
	}

	orderIDs := make([]kernel.UUID, 0, len(req.OrderIDs))
	for _, raw := range req.OrderIDs {
		orderID, parseErr := kernel.UUIDFromString(raw)
		if parseErr != nil {
			return badRequest(ctx, "Invalid order ID: "+raw)
		}
		orderIDs = append(orderIDs, orderID)
	}

	routeID := kernel.NewUUID()
	cmd, err := commands.NewCreateRouteCommand(routeID, delivererID, orderIDs, req.RouteSide)
	if err != nil {
		return badRequest(ctx, "Invalid route data: "+err.Error())
	}

	if handleErr := s.createRouteHandler.Handle(ctx.Request().Context(), cmd); handleErr != nil {
		return writeError(ctx, handleErr)
	}

	created, err := s.readRoute(ctx, routeID)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, created)
}

// StartRoute handles POST /api/v1/routes/:routeId/start.
func (s *Server) StartRoute(ctx echo.Context) error {
	routeID, err := kernel.UUIDFromString(ctx.Param("routeId"))
	if err != nil {
		return badRequest(ctx, "Invalid route ID")
	}

	cmd, err := commands.NewStartRouteCommand(routeID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.startRouteHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, startRouteResponse{
		RouteID:     result.RouteID.String(),
		RouteNumber: result.RouteNumber,
		OldStatus:   result.OldStatus.String(),
		NewStatus:   result.NewStatus.String(),
		StartedAt:   result.StartedAt.UTC().Format(time.RFC3339),
	})
}

// MarkStopDelivered handles POST /api/v1/routes/:routeId/stops/:stopId/delivered.
func (s *Server) MarkStopDelivered(ctx echo.Context) error {
	routeID, stopID, err := stopParams(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewMarkStopDeliveredCommand(routeID, stopID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.markStopDeliveredHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, stopTransitionBody(result))
}

// MarkStopFailed handles POST /api/v1/routes/:routeId/stops/:stopId/failed.
// The failure reason is mandatory.
func (s *Server) MarkStopFailed(ctx echo.Context) error {
	routeID, stopID, err := stopParams(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var req failStopRequest
	if bindErr := ctx.Bind(&req); bindErr != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewMarkStopFailedCommand(routeID, stopID, req.Reason)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.markStopFailedHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, stopTransitionBody(result))
}

// MarkStopSkipped handles POST /api/v1/routes/:routeId/stops/:stopId/skipped.
// The reason is optional; requeueOrder controls whether the associated order
// returns to the ready pool.
func (s *Server) MarkStopSkipped(ctx echo.Context) error {
	routeID, stopID, err := stopParams(ctx)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	var req skipStopRequest
	if bindErr := ctx.Bind(&req); bindErr != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewMarkStopSkippedCommand(routeID, stopID, req.Reason, req.RequeueOrder)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	result, err := s.markStopSkippedHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, stopTransitionBody(result))
}

// GetRoute handles GET /api/v1/routes/:routeId - retrieves a route with stops.
func (s *Server) GetRoute(ctx echo.Context) error {
	routeID, err := kernel.UUIDFromString(ctx.Param("routeId"))
	if err != nil {
		return badRequest(ctx, "Invalid route ID")
	}

	response, err := s.readRoute(ctx, routeID)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetActiveRoutes handles GET /api/v1/routes/active - retrieves uncompleted routes.
func (s *Server) GetActiveRoutes(ctx echo.Context) error {
	query := queries.NewGetActiveRoutesQuery()

	routes, err := s.getActiveRoutesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]activeRouteResponse, 0, len(routes))
	for _, r := range routes {
		response = append(response, activeRouteResponse{
			RouteID:        r.ID.String(),
			Number:         r.Number,
			Status:         r.Status.String(),
			DelivererID:    uuidString(r.DelivererID),
			TotalStops:     r.TotalStops,
			FinalizedStops: r.FinalizedStops,
			StartedAt:      timeString(r.StartedAt),
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// readRoute loads one route through the query side and maps it to the response shape.
func (s *Server) readRoute(ctx echo.Context, routeID kernel.UUID) (routeResponse, error) {
	query, err := queries.NewGetRouteQuery(routeID)
	if err != nil {
		return routeResponse{}, err
	}

	result, err := s.getRouteHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return routeResponse{}, err
	}

	stops := make([]stopResponse, 0, len(result.Stops))
	for _, stop := range result.Stops {
		stops = append(stops, stopResponse{
			StopID:        stop.ID.String(),
			Sequence:      stop.Sequence,
			Status:        stop.Status.String(),
			OrderID:       stop.OrderID.String(),
			OrderNumber:   stop.OrderNumber,
			CustomerName:  stop.CustomerName,
			Phone:         stop.Phone,
			Street:        stop.Street,
			DeliveredAt:   timeString(stop.DeliveredAt),
			FailedAt:      timeString(stop.FailedAt),
			FailureReason: stop.FailureReason,
		})
	}

	return routeResponse{
		RouteID:     result.ID.String(),
		Number:      result.Number,
		Status:      result.Status.String(),
		DelivererID: uuidString(result.DelivererID),
		TotalStops:  result.TotalStops,
		StartedAt:   timeString(result.StartedAt),
		CompletedAt: timeString(result.CompletedAt),
		Stops:       stops,
	}, nil
}

// stopTransitionBody maps a stop transition result to the response shape.
func stopTransitionBody(result commands.StopTransitionResult) stopTransitionResponse {
	return stopTransitionResponse{
		RouteID:          result.RouteID.String(),
		StopID:           result.StopID.String(),
		OldStatus:        result.OldStatus.String(),
		NewStatus:        result.NewStatus.String(),
		DeliveredAt:      timeString(result.DeliveredAt),
		FailedAt:         timeString(result.FailedAt),
		RouteCompleted:   result.RouteCompleted,
		RouteCompletedAt: timeString(result.RouteCompletedAt),
	}
}

// stopParams parses the route and stop identifiers from the path.
func stopParams(ctx echo.Context) (kernel.UUID, kernel.UUID, error) {
	routeID, err := kernel.UUIDFromString(ctx.Param("routeId"))
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, errors.New("invalid route ID")
	}

	stopID, err := kernel.UUIDFromString(ctx.Param("stopId"))
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, errors.New("invalid stop ID")
	}

	return routeID, stopID, nil
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// writeError maps application and domain errors to HTTP status codes.
func writeError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrVersionIsInvalid),
		errors.Is(err, route.ErrStopAlreadyFinalized):
		status = http.StatusConflict
	case errors.Is(err, commands.ErrDelivererIsNotActive),
		errors.Is(err, commands.ErrOrderIsNotReady),
		errors.Is(err, commands.ErrOrderIsNotGeocoded),
		errors.Is(err, commands.ErrOrderIsOutOfRadius),
		errors.Is(err, commands.ErrOrderInExclusionZone),
		errors.Is(err, commands.ErrNoRoutableOrders):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		status = http.StatusBadRequest
	}

	return ctx.JSON(status, ErrorResponse{
		Code:    status,
		Message: err.Error(),
	})
}

func uuidString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func timeString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
