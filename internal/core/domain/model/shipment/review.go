package shipment

import (
	"errors"
	"fmt"
	"time"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

const (
	RatingMin        = 1
	RatingMax        = 5
	CommentMaxLength = 500
)

var (
	ErrReviewIsNotConstructed = errors.New("Review must be created via NewReview or RestoreReview")

	// ErrReviewAlreadySubmitted is returned when a shipment is rated a second time.
	ErrReviewAlreadySubmitted = fmt.Errorf("%w: shipment has already been reviewed", errs.ErrAlreadyExists)
)

// Review is the client's single rating of a delivered shipment.
type Review struct {
	id         kernel.UUID
	shipmentID kernel.UUID
	rating     int
	comment    string
	createdAt  time.Time

	guard guard.ConstructorGuard
}

// NewReview validates the rating range and the comment length.
func NewReview(shipmentID kernel.UUID, rating int, comment string, now time.Time) (*Review, error) {
	return RestoreReview(kernel.NewUUID(), shipmentID, rating, comment, now.UTC().Truncate(time.Microsecond))
}

// RestoreReview rebuilds a persisted review.
func RestoreReview(id, shipmentID kernel.UUID, rating int, comment string, createdAt time.Time) (*Review, error) {
	if err := errors.Join(
		id.Validate(),
		shipmentID.Validate(),
		validateRating(rating),
		validateComment(comment),
	); err != nil {
		return nil, err
	}

	return &Review{
		id:         id,
		shipmentID: shipmentID,
		rating:     rating,
		comment:    comment,
		createdAt:  createdAt,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (r *Review) Validate() error {
	if r == nil {
		return ErrReviewIsNotConstructed
	}
	return r.guard.Validate(ErrReviewIsNotConstructed)
}

func (r *Review) ID() kernel.UUID {
	return r.id
}

func (r *Review) ShipmentID() kernel.UUID {
	return r.shipmentID
}

func (r *Review) Rating() int {
	return r.rating
}

func (r *Review) Comment() string {
	return r.comment
}

func (r *Review) CreatedAt() time.Time {
	return r.createdAt
}

func validateRating(rating int) error {
	if rating < RatingMin || rating > RatingMax {
		return errs.NewValueIsOutOfRangeError("rating", rating, RatingMin, RatingMax)
	}
	return nil
}

func validateComment(comment string) error {
	if n := len([]rune(comment)); n > CommentMaxLength {
		return errs.NewValueIsOutOfRangeError("comment length", n, 0, CommentMaxLength)
	}
	return nil
}
