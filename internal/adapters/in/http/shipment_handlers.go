package http

import (
	"fmt"
	"net/http"
	"strconv"

	"fastship/internal/core/application/usecases/commands"
	"fastship/internal/core/application/usecases/queries"
	"fastship/internal/core/application/views"
	"fastship/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// GetShipment handles GET /shipment?id=.
func (s *Server) GetShipment(c echo.Context) error {
	m, err := s.readShipment(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newShipmentResponse(m))
}

// TrackShipment handles GET /shipment/track?id= and renders the tracking page.
func (s *Server) TrackShipment(c echo.Context) error {
	m, err := s.readShipment(c)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, pageTrack, m)
}

func (s *Server) readShipment(c echo.Context) (views.ShipmentReadModel, error) {
	id, err := shipmentID(c)
	if err != nil {
		return views.ShipmentReadModel{}, err
	}
	query, err := queries.NewGetShipmentQuery(id)
	if err != nil {
		return views.ShipmentReadModel{}, err
	}
	return s.handlers.GetShipment.Handle(c.Request().Context(), query)
}

// GetTaggedShipments handles GET /shipment/tagged?tag_name=.
func (s *Server) GetTaggedShipments(c echo.Context) error {
	query, err := queries.NewGetTaggedShipmentsQuery(c.QueryParam("tag_name"))
	if err != nil {
		return err
	}

	found, err := s.handlers.GetTaggedShipments.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newShipmentResponses(found))
}

// CreateShipment handles POST /shipment for the logged in seller.
func (s *Server) CreateShipment(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}

	var body CreateShipmentRequest
	if err = c.Bind(&body); err != nil {
		return badRequest("Invalid request body")
	}

	cmd, err := commands.NewCreateShipmentCommand(
		claims.ID,
		body.Content,
		body.Weight,
		body.Destination,
		body.ClientContactEmail,
		body.ClientContactPhone,
	)
	if err != nil {
		return err
	}

	view, err := s.handlers.CreateShipment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newShipmentResponse(views.NewShipmentReadModel(view)))
}

// UpdateShipment handles PATCH /shipment?id= for the bound partner.
func (s *Server) UpdateShipment(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	id, err := shipmentID(c)
	if err != nil {
		return err
	}

	var body UpdateShipmentRequest
	if err = c.Bind(&body); err != nil {
		return badRequest("Invalid request body")
	}

	var update commands.ShipmentUpdate
	if body.Status != nil {
		update.Status = *body.Status
	}
	if body.Location != nil {
		update.Location = *body.Location
	}
	if body.Description != nil {
		update.Description = *body.Description
	}
	if body.EstimatedDelivery != nil {
		update.EstimatedDelivery = *body.EstimatedDelivery
	}

	cmd, err := commands.NewUpdateShipmentCommand(id, claims.ID, update)
	if err != nil {
		return err
	}

	view, err := s.handlers.UpdateShipment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newShipmentResponse(views.NewShipmentReadModel(view)))
}

// CancelShipment handles POST /shipment/cancel?id= for the owning seller.
func (s *Server) CancelShipment(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	id, err := shipmentID(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCancelShipmentCommand(id, claims.ID)
	if err != nil {
		return err
	}

	view, err := s.handlers.CancelShipment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newShipmentResponse(views.NewShipmentReadModel(view)))
}

// DeleteShipment handles DELETE /shipment?id= for the owning seller.
func (s *Server) DeleteShipment(c echo.Context) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	id, err := shipmentID(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewDeleteShipmentCommand(id, claims.ID)
	if err != nil {
		return err
	}
	if err = s.handlers.DeleteShipment.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DetailResponse{Detail: fmt.Sprintf("Shipment #%s deleted", id)})
}

// AddShipmentTag handles POST /shipment/tag?id=&tag_name=.
func (s *Server) AddShipmentTag(c echo.Context) error {
	return s.changeTag(c, s.handlers.AddShipmentTag)
}

// RemoveShipmentTag handles DELETE /shipment/tag?id=&tag_name=.
func (s *Server) RemoveShipmentTag(c echo.Context) error {
	return s.changeTag(c, s.handlers.RemoveShipmentTag)
}

func (s *Server) changeTag(c echo.Context, h Handler[commands.ShipmentTagCommand, views.ShipmentView]) error {
	claims, err := claimsFrom(c)
	if err != nil {
		return err
	}
	id, err := shipmentID(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewShipmentTagCommand(id, claims.ID, c.QueryParam("tag_name"))
	if err != nil {
		return err
	}

	view, err := h.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newShipmentResponse(views.NewShipmentReadModel(view)))
}

// ReviewForm handles GET /shipment/review?token= and renders the rating form.
func (s *Server) ReviewForm(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return badRequest("token is required")
	}
	return c.Render(http.StatusOK, pageReview, formPage{
		Action: s.link("/shipment/review", token),
	})
}

// SubmitReview handles POST /shipment/review?token= with form fields rating and comment.
func (s *Server) SubmitReview(c echo.Context) error {
	rating, err := strconv.Atoi(c.FormValue("rating"))
	if err != nil {
		return badRequest("rating must be a number between 1 and 5")
	}

	cmd, err := commands.NewRateShipmentCommand(c.QueryParam("token"), rating, c.FormValue("comment"))
	if err != nil {
		return err
	}
	if err = s.handlers.RateShipment.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, DetailResponse{Detail: "Review submitted"})
}

func shipmentID(c echo.Context) (kernel.UUID, error) {
	raw := c.QueryParam("id")
	if raw == "" {
		return kernel.UUID{}, badRequest("id is required")
	}
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, badRequest("id is not a valid UUID")
	}
	return id, nil
}
