package reviewrepo_test

import (
	"context"
	"testing"
	"time"

	"fastship/internal/adapters/out/postgres/pgtest"
	"fastship/internal/adapters/out/postgres/reviewrepo"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
)

type ReviewRepositoryIntegrationTestSuite struct {
	pgtest.Suite
	repository *reviewrepo.GormReviewRepository
}

func (suite *ReviewRepositoryIntegrationTestSuite) SetupTest() {
	suite.Suite.SetupTest()
	suite.repository = reviewrepo.NewGormReviewRepository(suite.DB)
}

func (suite *ReviewRepositoryIntegrationTestSuite) TestAdd_OnePerShipment() {
	ctx := context.Background()
	shipmentID := kernel.NewUUID()

	exists, err := suite.repository.ExistsForShipment(ctx, shipmentID)
	suite.Require().NoError(err)
	suite.False(exists)

	first, err := shipment.NewReview(shipmentID, 5, "great", time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, first))

	exists, err = suite.repository.ExistsForShipment(ctx, shipmentID)
	suite.Require().NoError(err)
	suite.True(exists)

	second, err := shipment.NewReview(shipmentID, 1, "changed my mind", time.Now())
	suite.Require().NoError(err)
	err = suite.repository.Add(ctx, second)
	suite.Require().ErrorIs(err, shipment.ErrReviewAlreadySubmitted)
	suite.Require().ErrorIs(err, errs.ErrAlreadyExists)
}

func TestReviewRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ReviewRepositoryIntegrationTestSuite))
}
