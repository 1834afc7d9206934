package queries

import (
	"errors"

	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/pkg/guard"
)

var ErrGetTaggedShipmentsQueryIsNotConstructed = errors.New(
	"GetTaggedShipmentsQuery must be created via NewGetTaggedShipmentsQuery constructor",
)

// GetTaggedShipmentsQuery lists every shipment carrying one catalogue tag.
type GetTaggedShipmentsQuery struct { //nolint:recvcheck //using for validation
	tag shipment.TagName

	guard guard.ConstructorGuard
}

// NewGetTaggedShipmentsQuery rejects names outside of the tag catalogue.
func NewGetTaggedShipmentsQuery(tagName string) (GetTaggedShipmentsQuery, error) {
	tag, err := shipment.ParseTagName(tagName)
	if err != nil {
		return GetTaggedShipmentsQuery{}, err
	}
	return GetTaggedShipmentsQuery{tag: tag, guard: guard.NewConstructorGuard()}, nil
}

func (q GetTaggedShipmentsQuery) Validate() error {
	return q.guard.Validate(ErrGetTaggedShipmentsQueryIsNotConstructed)
}

func (q GetTaggedShipmentsQuery) Tag() shipment.TagName {
	return q.tag
}
