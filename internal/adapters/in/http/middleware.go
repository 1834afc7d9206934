package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fastship/internal/core/application/auth"
	"fastship/internal/core/domain/model/account"
	"fastship/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const claimsKey = "access_claims"

// requireRole admits requests carrying a valid, unrevoked access token of role.
func (s *Server) requireRole(role account.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request())
			if !ok {
				return errs.NewInvalidTokenError("missing bearer token")
			}

			claims, err := s.access.VerifyAccess(c.Request().Context(), token)
			if err != nil {
				return err
			}
			if claims.Role != role {
				return errs.NewNotAuthorizedError(claims.Role.String()+" "+claims.ID.String(), role.String()+" resources")
			}

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get(echo.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// claimsFrom returns the claims stored by requireRole.
func claimsFrom(c echo.Context) (auth.AccessClaims, error) {
	claims, ok := c.Get(claimsKey).(auth.AccessClaims)
	if !ok {
		return auth.AccessClaims{}, fmt.Errorf("route %s is missing the authentication middleware", c.Path())
	}
	return claims, nil
}

func (s *Server) recoverer() echo.MiddlewareFunc {
	return middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			s.logger.Error("panic recovered",
				zap.String("path", c.Path()),
				zap.Error(err),
				zap.ByteString("stack", stack),
			)
			return err
		},
	})
}

// accessLog writes one zap line per request.
func (s *Server) accessLog() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			s.logger.Info("request", fields...)
			return nil
		},
	})
}

// instrument records request counts and latency per route.
func (s *Server) instrument() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				status = StatusFor(err)
				if httpErr, ok := err.(*echo.HTTPError); ok { //nolint:errorlint // echo returns it unwrapped
					status = httpErr.Code
				}
			}

			route := c.Path()
			s.metrics.HTTPRequestsTotal.WithLabelValues(route, c.Request().Method, strconv.Itoa(status)).Inc()
			s.metrics.HTTPRequestDuration.WithLabelValues(route, c.Request().Method).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
