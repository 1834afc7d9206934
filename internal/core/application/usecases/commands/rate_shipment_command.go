package commands

import (
	"errors"

	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

var ErrRateShipmentCommandIsNotConstructed = errors.New(
	"RateShipmentCommand must be created via NewRateShipmentCommand constructor",
)

// RateShipmentCommand carries a client's review submitted through the link of
// the delivery e-mail.
type RateShipmentCommand struct { //nolint:recvcheck //using for validation
	token   string
	rating  int
	comment string

	guard guard.ConstructorGuard
}

func NewRateShipmentCommand(token string, rating int, comment string) (RateShipmentCommand, error) {
	var problems []error
	if token == "" {
		problems = append(problems, errs.NewValueIsRequiredError("review token"))
	}
	if rating < shipment.RatingMin || rating > shipment.RatingMax {
		problems = append(problems, errs.NewValueIsOutOfRangeError("rating", rating, shipment.RatingMin, shipment.RatingMax))
	}
	if n := len([]rune(comment)); n > shipment.CommentMaxLength {
		problems = append(problems, errs.NewValueIsOutOfRangeError("comment length", n, 0, shipment.CommentMaxLength))
	}
	if err := errors.Join(problems...); err != nil {
		return RateShipmentCommand{}, err
	}

	return RateShipmentCommand{
		token:   token,
		rating:  rating,
		comment: comment,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RateShipmentCommand) Validate() error {
	return c.guard.Validate(ErrRateShipmentCommandIsNotConstructed)
}

func (c RateShipmentCommand) Token() string {
	return c.token
}

func (c RateShipmentCommand) Rating() int {
	return c.rating
}

func (c RateShipmentCommand) Comment() string {
	return c.comment
}
