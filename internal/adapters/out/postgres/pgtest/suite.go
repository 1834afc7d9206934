// Package pgtest runs integration suites against a disposable PostgreSQL container.
package pgtest

import (
	"context"
	"time"

	adapter "fastship/internal/adapters/out/postgres"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Suite starts one container per suite, migrates the schema and truncates
// every table before each test. Embed it and call the hooks from your own
// SetupSuite/SetupTest when you override them.
type Suite struct {
	suite.Suite
	Container *postgres.PostgresContainer
	DB        *gorm.DB
}

func (s *Suite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.Container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)
	s.DB = db

	s.Require().NoError(adapter.Migrate(db))
}

func (s *Suite) TearDownSuite() {
	if s.Container != nil {
		s.Require().NoError(s.Container.Terminate(context.Background()))
	}
}

func (s *Suite) SetupTest() {
	s.Require().NoError(adapter.Truncate(s.DB))
}
