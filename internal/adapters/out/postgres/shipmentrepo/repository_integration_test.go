package shipmentrepo_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"fastship/internal/adapters/out/postgres/partnerrepo"
	"fastship/internal/adapters/out/postgres/pgtest"
	"fastship/internal/adapters/out/postgres/sellerrepo"
	"fastship/internal/adapters/out/postgres/shipmentrepo"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

type ShipmentRepositoryIntegrationTestSuite struct {
	pgtest.Suite
	repository *shipmentrepo.GormShipmentRepository
	sellerID   kernel.UUID
	partnerID  kernel.UUID
}

func (suite *ShipmentRepositoryIntegrationTestSuite) SetupTest() {
	suite.Suite.SetupTest()
	ctx := context.Background()

	sel := pgtest.NewSeller(suite.T(), "acme", 11001)
	suite.Require().NoError(sellerrepo.NewGormSellerRepository(suite.DB).Add(ctx, sel))
	p := pgtest.NewPartner(suite.T(), "rapid", 0, 10, 11002)
	suite.Require().NoError(partnerrepo.NewGormPartnerRepository(suite.DB).Add(ctx, p))

	suite.sellerID = sel.ID()
	suite.partnerID = p.ID()
	suite.repository = shipmentrepo.NewGormShipmentRepository(suite.DB)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) newShipment() *shipment.Shipment {
	return pgtest.NewShipment(suite.T(), suite.sellerID, suite.partnerID, 11002, time.Now())
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestAdd_Get_RoundTrip() {
	ctx := context.Background()
	s := suite.newShipment()
	suite.Require().NoError(s.AddTag(shipment.TagFragile))

	suite.Require().NoError(suite.repository.Add(ctx, s))
	loaded, err := suite.repository.Get(ctx, s.ID())

	suite.Require().NoError(err)
	suite.True(loaded.ID().IsEqual(s.ID()))
	suite.Equal(s.Details().Content, loaded.Details().Content)
	suite.Equal(s.Details().ContactEmail, loaded.Details().ContactEmail)
	suite.True(loaded.IsOwnedBy(suite.sellerID))
	suite.True(loaded.IsBoundTo(suite.partnerID))
	suite.Equal(shipment.Placed, loaded.CurrentStatus())
	suite.Equal(1, loaded.Timeline().Len())
	suite.Empty(loaded.Timeline().NewEvents())
	suite.True(s.CreatedAt().Equal(loaded.CreatedAt()))
	suite.Equal([]shipment.TagName{shipment.TagFragile}, loaded.Tags())

	var status string
	suite.Require().NoError(suite.DB.Raw("SELECT status FROM shipments WHERE id = ?", s.ID().Bytes()).Scan(&status).Error)
	suite.Equal("placed", status)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestUpdate_AppendsEventsAndCachesStatus() {
	ctx := context.Background()
	s := suite.newShipment()
	suite.Require().NoError(suite.repository.Add(ctx, s))

	loaded, err := suite.repository.Get(ctx, s.ID())
	suite.Require().NoError(err)
	_, err = loaded.Append(shipment.EventDraft{Status: shipment.InTransit, Location: kernel.MustPostalCode(11050)}, time.Now())
	suite.Require().NoError(err)
	_, err = loaded.Append(shipment.EventDraft{Status: shipment.OutForDelivery}, time.Now())
	suite.Require().NoError(err)
	estimate := time.Now().Add(5 * time.Hour).UTC().Truncate(time.Microsecond)
	suite.Require().NoError(loaded.SetEstimatedDelivery(estimate))

	suite.Require().NoError(suite.repository.Update(ctx, loaded))
	suite.Require().ErrorIs(suite.repository.Update(ctx, loaded), errs.ErrConcurrentModification,
		"a replayed write is stale")

	reloaded, err := suite.repository.Get(ctx, s.ID())
	suite.Require().NoError(err)
	suite.Equal(3, reloaded.Timeline().Len())
	suite.Equal(shipment.OutForDelivery, reloaded.CurrentStatus())
	suite.Equal(kernel.MustPostalCode(11050), reloaded.Timeline().Latest().Location())
	suite.True(estimate.Equal(reloaded.EstimatedDelivery()))

	var status string
	suite.Require().NoError(suite.DB.Raw("SELECT status FROM shipments WHERE id = ?", s.ID().Bytes()).Scan(&status).Error)
	suite.Equal("out_for_delivery", status)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestUpdate_ReplacesTags() {
	ctx := context.Background()
	s := suite.newShipment()
	suite.Require().NoError(s.AddTag(shipment.TagFragile))
	suite.Require().NoError(s.AddTag(shipment.TagGift))
	suite.Require().NoError(suite.repository.Add(ctx, s))

	loaded, err := suite.repository.Get(ctx, s.ID())
	suite.Require().NoError(err)
	suite.Require().NoError(loaded.RemoveTag(shipment.TagFragile))
	suite.Require().NoError(loaded.AddTag(shipment.TagExpress))
	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	loaded, err = suite.repository.Get(ctx, s.ID())
	suite.Require().NoError(err)
	suite.ElementsMatch([]shipment.TagName{shipment.TagGift, shipment.TagExpress}, loaded.Tags())

	suite.Require().NoError(loaded.RemoveTag(shipment.TagGift))
	suite.Require().NoError(loaded.RemoveTag(shipment.TagExpress))
	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	loaded, err = suite.repository.Get(ctx, s.ID())
	suite.Require().NoError(err)
	suite.Empty(loaded.Tags())
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestUpdate_NotFound() {
	err := suite.repository.Update(context.Background(), suite.newShipment())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestUpdate_StaleStatusIsRejected() {
	ctx := context.Background()
	s := suite.newShipment()
	suite.Require().NoError(suite.repository.Add(ctx, s))

	delivered, err := suite.repository.Get(ctx, s.ID())
	suite.Require().NoError(err)
	cancelled, err := suite.repository.Get(ctx, s.ID())
	suite.Require().NoError(err)

	_, err = delivered.Append(shipment.EventDraft{Status: shipment.Delivered}, time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, delivered))

	_, err = cancelled.Cancel(time.Now())
	suite.Require().NoError(err)
	err = suite.repository.Update(ctx, cancelled)

	suite.Require().ErrorIs(err, errs.ErrConcurrentModification)
	loaded, err := suite.repository.Get(ctx, s.ID())
	suite.Require().NoError(err)
	suite.Equal(shipment.Delivered, loaded.CurrentStatus())
	suite.Equal(2, loaded.Timeline().Len())
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestUpdate_TakenSequenceIsRejected() {
	ctx := context.Background()
	s := suite.newShipment()
	suite.Require().NoError(suite.repository.Add(ctx, s))

	first, err := suite.repository.Get(ctx, s.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, s.ID())
	suite.Require().NoError(err)

	_, err = first.Append(shipment.EventDraft{Location: kernel.MustPostalCode(11003)}, time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, first))

	_, err = second.Append(shipment.EventDraft{Location: kernel.MustPostalCode(11004)}, time.Now())
	suite.Require().NoError(err)
	err = suite.repository.Update(ctx, second)

	suite.Require().ErrorIs(err, errs.ErrConcurrentModification)
	var events int64
	suite.Require().NoError(suite.DB.Model(&shipmentrepo.EventDTO{}).Where("shipment_id = ?", s.ID().Bytes()).Count(&events).Error)
	suite.Equal(int64(2), events)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestGetForUpdate_SerializesWriters() {
	ctx := context.Background()
	s := suite.newShipment()
	suite.Require().NoError(suite.repository.Add(ctx, s))

	holder := suite.DB.Begin()
	suite.Require().NoError(holder.Error)
	_, err := shipmentrepo.NewGormShipmentRepository(holder).GetForUpdate(ctx, s.ID())
	suite.Require().NoError(err)

	waiter := suite.DB.Begin()
	suite.Require().NoError(waiter.Error)
	defer waiter.Rollback()

	var acquired atomic.Bool
	done := make(chan error, 1)
	go func() {
		_, err := shipmentrepo.NewGormShipmentRepository(waiter).GetForUpdate(ctx, s.ID())
		acquired.Store(true)
		done <- err
	}()

	suite.Never(acquired.Load, 300*time.Millisecond, 20*time.Millisecond, "the row is locked")
	suite.Require().NoError(holder.Commit().Error)
	suite.Require().NoError(<-done)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestGetForUpdate_NotFound() {
	_, err := suite.repository.GetForUpdate(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestDelete_Cascades() {
	ctx := context.Background()
	s := suite.newShipment()
	suite.Require().NoError(s.AddTag(shipment.TagHeavy))
	suite.Require().NoError(suite.repository.Add(ctx, s))

	suite.Require().NoError(suite.repository.Delete(ctx, s.ID()))

	var events, tags int64
	suite.Require().NoError(suite.DB.Model(&shipmentrepo.EventDTO{}).Count(&events).Error)
	suite.Require().NoError(suite.DB.Model(&shipmentrepo.TagDTO{}).Count(&tags).Error)
	suite.Zero(events)
	suite.Zero(tags)
	suite.Require().ErrorIs(suite.repository.Delete(ctx, s.ID()), errs.ErrObjectNotFound)
}

func (suite *ShipmentRepositoryIntegrationTestSuite) TestFindByTag_NewestFirst() {
	ctx := context.Background()
	older := pgtest.NewShipment(suite.T(), suite.sellerID, suite.partnerID, 11002, time.Now().Add(-time.Hour))
	newer := suite.newShipment()
	untagged := suite.newShipment()
	suite.Require().NoError(older.AddTag(shipment.TagReturn))
	suite.Require().NoError(newer.AddTag(shipment.TagReturn))
	for _, s := range []*shipment.Shipment{older, newer, untagged} {
		suite.Require().NoError(suite.repository.Add(ctx, s))
	}

	found, err := suite.repository.FindByTag(ctx, shipment.TagReturn)

	suite.Require().NoError(err)
	suite.Require().Len(found, 2)
	suite.True(found[0].ID().IsEqual(newer.ID()))
	suite.True(found[1].ID().IsEqual(older.ID()))
}

func TestShipmentRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ShipmentRepositoryIntegrationTestSuite))
}
