// Package http exposes the shipment and account use cases over REST with echo.
package http

import (
	"context"
	"net/http"

	"fastship/internal/core/application/auth"
	"fastship/internal/core/application/usecases/commands"
	"fastship/internal/core/application/usecases/queries"
	"fastship/internal/core/application/views"
	"fastship/internal/core/domain/model/account"
	"fastship/internal/core/domain/model/partner"
	"fastship/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Handler is a use case that produces a result.
type Handler[C, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

// ActionHandler is a use case that produces nothing but an error.
type ActionHandler[C any] interface {
	Handle(ctx context.Context, cmd C) error
}

// AccessVerifier checks bearer tokens.
type AccessVerifier interface {
	VerifyAccess(ctx context.Context, token string) (auth.AccessClaims, error)
}

// Handlers lists every use case the server dispatches to.
type Handlers struct {
	GetShipment        Handler[queries.GetShipmentQuery, views.ShipmentReadModel]
	GetTaggedShipments Handler[queries.GetTaggedShipmentsQuery, []views.ShipmentReadModel]
	CreateShipment     Handler[commands.CreateShipmentCommand, views.ShipmentView]
	UpdateShipment     Handler[commands.UpdateShipmentCommand, views.ShipmentView]
	CancelShipment     Handler[commands.CancelShipmentCommand, views.ShipmentView]
	AddShipmentTag     Handler[commands.ShipmentTagCommand, views.ShipmentView]
	RemoveShipmentTag  Handler[commands.ShipmentTagCommand, views.ShipmentView]
	DeleteShipment     ActionHandler[commands.DeleteShipmentCommand]
	RateShipment       ActionHandler[commands.RateShipmentCommand]

	RegisterAccount      Handler[commands.RegisterAccountCommand, account.Account]
	VerifyEmail          ActionHandler[commands.VerifyEmailCommand]
	Login                Handler[commands.LoginCommand, auth.AccessToken]
	Logout               ActionHandler[commands.LogoutCommand]
	RequestPasswordReset ActionHandler[commands.RequestPasswordResetCommand]
	ResetPassword        Handler[commands.ResetPasswordCommand, bool]
	UpdatePartner        Handler[commands.UpdatePartnerCommand, *partner.Partner]
}

// Server coordinates between HTTP requests and application use cases.
type Server struct {
	handlers Handlers
	access   AccessVerifier
	logger   *zap.Logger
	metrics  *metrics.Metrics
	// domain is the public host used in links rendered into pages.
	domain string
}

func NewServer(handlers Handlers, access AccessVerifier, logger *zap.Logger, m *metrics.Metrics, domain string) *Server {
	return &Server{
		handlers: handlers,
		access:   access,
		logger:   logger.With(zap.String("component", "http")),
		metrics:  m,
		domain:   domain,
	}
}

// NewEcho builds the echo instance with middleware and every route registered.
func (s *Server) NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.errorHandler
	e.Renderer = newPageRenderer()

	e.Use(s.recoverer(), middleware.RequestID(), s.accessLog(), s.instrument())

	s.Register(e)
	return e
}

// Register adds the routes to e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	sellerOnly := s.requireRole(account.RoleSeller)
	partnerOnly := s.requireRole(account.RolePartner)

	shipments := e.Group("/shipment")
	shipments.GET("", s.GetShipment)
	shipments.GET("/track", s.TrackShipment)
	shipments.GET("/tagged", s.GetTaggedShipments)
	shipments.POST("", s.CreateShipment, sellerOnly)
	shipments.PATCH("", s.UpdateShipment, partnerOnly)
	shipments.DELETE("", s.DeleteShipment, sellerOnly)
	shipments.POST("/cancel", s.CancelShipment, sellerOnly)
	shipments.POST("/tag", s.AddShipmentTag, sellerOnly)
	shipments.DELETE("/tag", s.RemoveShipmentTag, sellerOnly)
	shipments.GET("/review", s.ReviewForm)
	shipments.POST("/review", s.SubmitReview)

	s.registerAccountRoutes(e.Group("/seller"), account.RoleSeller, sellerOnly)

	partners := e.Group("/partner")
	s.registerAccountRoutes(partners, account.RolePartner, partnerOnly)
	partners.POST("", s.UpdatePartner, partnerOnly)
}

func (s *Server) registerAccountRoutes(g *echo.Group, role account.Role, authenticated echo.MiddlewareFunc) {
	g.POST("/signup", s.signup(role))
	g.POST("/login", s.login(role))
	g.GET("/verify", s.verifyEmail(role))
	g.GET("/forgot_password", s.forgotPassword(role))
	g.GET("/reset_password_form", s.resetPasswordForm(role))
	g.POST("/reset_password", s.resetPassword(role))
	g.GET("/logout", s.Logout, authenticated)
}
