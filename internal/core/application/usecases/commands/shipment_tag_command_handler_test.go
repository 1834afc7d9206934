package commands_test

import (
	"testing"

	"fastship/internal/core/application/usecases/commands"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tagCommand(t *testing.T, shipmentID, sellerID kernel.UUID, tag string) commands.ShipmentTagCommand {
	t.Helper()
	cmd, err := commands.NewShipmentTagCommand(shipmentID, sellerID, tag)
	require.NoError(t, err)
	return cmd
}

func TestNewShipmentTagCommand_UnknownTag(t *testing.T) {
	_, err := commands.NewShipmentTagCommand(kernel.NewUUID(), kernel.NewUUID(), "urgent")

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestShipmentTagCommandHandlers(t *testing.T) {
	store := newMemoryStore()
	shipmentID, sellerID, _ := placedShipment(t, store)
	add := commands.NewAddShipmentTagCommandHandler(store)
	remove := commands.NewRemoveShipmentTagCommandHandler(store)
	ctx := t.Context()

	view, err := add.Handle(ctx, tagCommand(t, shipmentID, sellerID, "fragile"))
	require.NoError(t, err)
	assert.Equal(t, []shipment.TagName{shipment.TagFragile}, view.Shipment.Tags())

	_, err = add.Handle(ctx, tagCommand(t, shipmentID, sellerID, "express"))
	require.NoError(t, err)

	_, err = add.Handle(ctx, tagCommand(t, shipmentID, sellerID, "fragile"))
	require.ErrorIs(t, err, errs.ErrDuplicateAssociation)

	view, err = remove.Handle(ctx, tagCommand(t, shipmentID, sellerID, "fragile"))
	require.NoError(t, err)
	assert.Equal(t, []shipment.TagName{shipment.TagExpress}, view.Shipment.Tags())

	_, err = remove.Handle(ctx, tagCommand(t, shipmentID, sellerID, "fragile"))
	require.ErrorIs(t, err, errs.ErrMissingAssociation)

	assert.Equal(t, []shipment.TagName{shipment.TagExpress}, store.storedShipment(shipmentID).Tags())
}

func TestShipmentTagCommandHandlers_ForeignSeller(t *testing.T) {
	store := newMemoryStore()
	shipmentID, _, _ := placedShipment(t, store)
	stranger := store.addSeller(t, "stranger", 11001)
	add := commands.NewAddShipmentTagCommandHandler(store)

	_, err := add.Handle(t.Context(), tagCommand(t, shipmentID, stranger.ID(), "gift"))

	require.ErrorIs(t, err, errs.ErrClientNotAuthorized)
	assert.Empty(t, store.storedShipment(shipmentID).Tags())
}
