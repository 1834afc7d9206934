package http

import (
	"errors"
	"net/http"

	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Error is the body of every failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// StatusFor maps an application error to its HTTP status. Unknown errors are 500.
func StatusFor(err error) int {
	var tokenErr *errs.InvalidTokenError

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.As(err, &tokenErr) && tokenErr.Revoked:
		return http.StatusForbidden
	case errors.Is(err, errs.ErrClientNotAuthorized),
		errors.Is(err, errs.ErrBadCredentials),
		errors.Is(err, errs.ErrEmailNotVerified),
		errors.Is(err, errs.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrCapacityExceeded):
		return http.StatusNotAcceptable
	case errors.Is(err, shipment.ErrReviewAlreadySubmitted),
		errors.Is(err, errs.ErrAlreadyExists),
		errors.Is(err, errs.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, errs.ErrDuplicateAssociation),
		errors.Is(err, errs.ErrMissingAssociation):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrStatusTransitionIsInvalid):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// errorHandler renders err as an Error body. Internal failures are logged and
// their text is not sent to the client.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := StatusFor(err)
	message := err.Error()

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		if m, ok := httpErr.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		message = http.StatusText(code)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, Error{Code: code, Message: message})
	}
	if writeErr != nil {
		s.logger.Warn("failed to write error response", zap.Error(writeErr))
	}
}

func badRequest(message string) error {
	return echo.NewHTTPError(http.StatusBadRequest, message)
}
