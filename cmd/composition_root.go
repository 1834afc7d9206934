package cmd

import (
	"errors"
	"fmt"

	fshttp "fastship/internal/adapters/in/http"
	"fastship/internal/adapters/out/crypto"
	"fastship/internal/adapters/out/kafka"
	"fastship/internal/adapters/out/postgres"
	"fastship/internal/adapters/out/postgres/partnerrepo"
	"fastship/internal/adapters/out/rabbitmq"
	"fastship/internal/adapters/out/redis"
	"fastship/internal/core/application/auth"
	"fastship/internal/core/application/notify"
	"fastship/internal/core/application/usecases/commands"
	"fastship/internal/core/application/usecases/queries"
	"fastship/internal/core/ports"
	"fastship/internal/jobs"
	"fastship/internal/pkg/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CompositionRoot owns every process-scoped dependency and builds the use
// case handlers from them.
type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *zap.Logger
	metrics    *metrics.Metrics

	revocations *redis.RevocationStore
	tasks       *rabbitmq.TaskDispatcher
	timeline    *kafka.TimelinePublisher

	hasher    *crypto.Argon2Hasher
	authority *auth.TokenAuthority
	notifier  *notify.Notifier
}

// NewCompositionRoot connects to redis, rabbitmq and, when configured, kafka.
// Call Close to release the connections.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *zap.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
		metrics:    metrics.New(),
		hasher:     crypto.NewArgon2Hasher(crypto.DefaultParams),
	}

	var err error
	if c.revocations, err = redis.NewRevocationStore(cfg.Broker.RedisURL); err != nil {
		return nil, err
	}
	if c.tasks, err = rabbitmq.Dial(cfg.Broker.RabbitMQURL, cfg.Broker.TaskQueue); err != nil {
		_ = c.Close()
		return nil, err
	}

	var publisher ports.TimelinePublisher
	if cfg.Broker.KafkaBroker != "" {
		c.timeline = kafka.NewTimelinePublisher(cfg.Broker.KafkaBroker, cfg.Broker.KafkaTimelineTopic)
		publisher = c.timeline
	} else {
		logger.Warn("KAFKA_BROKER is not set, timeline events will not be streamed")
	}

	c.authority, err = auth.NewTokenAuthority(auth.Config{
		Secret:    []byte(cfg.Auth.JWTSecret),
		AccessTTL: cfg.Auth.AccessTokenTTL,
		ResetTTL:  cfg.Auth.ResetTokenTTL,
	}, c.revocations)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("token authority: %w", err)
	}

	c.notifier = notify.NewNotifier(
		notify.Config{AppDomain: cfg.AppDomain, Timeout: cfg.NotifyTimeout},
		c.tasks,
		publisher,
		c.authority,
		logger,
		c.metrics,
	)

	return c, nil
}

// Close waits for pending notifications and closes the broker connections.
func (c *CompositionRoot) Close() error {
	if c.notifier != nil {
		c.notifier.Wait()
	}

	var errList []error
	if c.timeline != nil {
		errList = append(errList, c.timeline.Close())
	}
	if c.tasks != nil {
		errList = append(errList, c.tasks.Close())
	}
	if c.revocations != nil {
		errList = append(errList, c.revocations.Close())
	}
	return errors.Join(errList...)
}

func (c *CompositionRoot) Metrics() *metrics.Metrics {
	return c.metrics
}

// NewHTTPServer wires every handler into the echo adapter.
func (c *CompositionRoot) NewHTTPServer() *fshttp.Server {
	return fshttp.NewServer(fshttp.Handlers{
		GetShipment:        c.CreateGetShipmentQueryHandler(),
		GetTaggedShipments: c.CreateGetTaggedShipmentsQueryHandler(),
		CreateShipment:     c.CreateCreateShipmentCommandHandler(),
		UpdateShipment:     c.CreateUpdateShipmentCommandHandler(),
		CancelShipment:     c.CreateCancelShipmentCommandHandler(),
		AddShipmentTag:     c.CreateAddShipmentTagCommandHandler(),
		RemoveShipmentTag:  c.CreateRemoveShipmentTagCommandHandler(),
		DeleteShipment:     c.CreateDeleteShipmentCommandHandler(),
		RateShipment:       c.CreateRateShipmentCommandHandler(),

		RegisterAccount:      c.CreateRegisterAccountCommandHandler(),
		VerifyEmail:          c.CreateVerifyEmailCommandHandler(),
		Login:                c.CreateLoginCommandHandler(),
		Logout:               c.CreateLogoutCommandHandler(),
		RequestPasswordReset: c.CreateRequestPasswordResetCommandHandler(),
		ResetPassword:        c.CreateResetPasswordCommandHandler(),
		UpdatePartner:        c.CreateUpdatePartnerCommandHandler(),
	}, c.authority, c.logger, c.metrics, c.cfg.AppDomain)
}

// NewJobManager builds the scheduled jobs. The reconcile job works outside of
// any unit of work because RecountActive is a single statement.
func (c *CompositionRoot) NewJobManager() (*jobs.JobManager, error) {
	return jobs.NewJobManager(
		partnerrepo.NewGormPartnerRepository(c.gormDB),
		c.cfg.ReconcileSchedule,
		c.metrics,
		c.logger,
	)
}

func (c *CompositionRoot) shipmentUoWFactory() commands.ShipmentUoWFactory {
	return FuncShipmentUoWFactory(func() commands.ShipmentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) reviewUoWFactory() commands.ReviewUoWFactory {
	return FuncReviewUoWFactory(func() commands.ReviewUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) accountUoWFactory() commands.AccountUoWFactory {
	return FuncAccountUoWFactory(func() commands.AccountUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateShipmentCommandHandler() *commands.CreateShipmentCommandHandler {
	h := commands.NewCreateShipmentCommandHandler(
		c.shipmentUoWFactory(), c.notifier, c.metrics, c.cfg.EstimatedDeliveryAfter)
	return &h
}

func (c *CompositionRoot) CreateUpdateShipmentCommandHandler() *commands.UpdateShipmentCommandHandler {
	h := commands.NewUpdateShipmentCommandHandler(c.shipmentUoWFactory(), c.notifier)
	return &h
}

func (c *CompositionRoot) CreateCancelShipmentCommandHandler() *commands.CancelShipmentCommandHandler {
	h := commands.NewCancelShipmentCommandHandler(c.shipmentUoWFactory(), c.notifier)
	return &h
}

func (c *CompositionRoot) CreateAddShipmentTagCommandHandler() *commands.AddShipmentTagCommandHandler {
	h := commands.NewAddShipmentTagCommandHandler(c.shipmentUoWFactory())
	return &h
}

func (c *CompositionRoot) CreateRemoveShipmentTagCommandHandler() *commands.RemoveShipmentTagCommandHandler {
	h := commands.NewRemoveShipmentTagCommandHandler(c.shipmentUoWFactory())
	return &h
}

func (c *CompositionRoot) CreateDeleteShipmentCommandHandler() *commands.DeleteShipmentCommandHandler {
	h := commands.NewDeleteShipmentCommandHandler(c.shipmentUoWFactory())
	return &h
}

func (c *CompositionRoot) CreateRateShipmentCommandHandler() *commands.RateShipmentCommandHandler {
	h := commands.NewRateShipmentCommandHandler(c.reviewUoWFactory(), c.authority)
	return &h
}

func (c *CompositionRoot) CreateRegisterAccountCommandHandler() *commands.RegisterAccountCommandHandler {
	h := commands.NewRegisterAccountCommandHandler(c.accountUoWFactory(), c.hasher, c.authority, c.notifier)
	return &h
}

func (c *CompositionRoot) CreateVerifyEmailCommandHandler() *commands.VerifyEmailCommandHandler {
	h := commands.NewVerifyEmailCommandHandler(c.accountUoWFactory(), c.authority)
	return &h
}

func (c *CompositionRoot) CreateLoginCommandHandler() *commands.LoginCommandHandler {
	h := commands.NewLoginCommandHandler(c.accountUoWFactory(), c.hasher, c.authority)
	return &h
}

func (c *CompositionRoot) CreateLogoutCommandHandler() *commands.LogoutCommandHandler {
	h := commands.NewLogoutCommandHandler(c.authority)
	return &h
}

func (c *CompositionRoot) CreateRequestPasswordResetCommandHandler() *commands.RequestPasswordResetCommandHandler {
	h := commands.NewRequestPasswordResetCommandHandler(c.accountUoWFactory(), c.authority, c.notifier)
	return &h
}

func (c *CompositionRoot) CreateResetPasswordCommandHandler() *commands.ResetPasswordCommandHandler {
	h := commands.NewResetPasswordCommandHandler(c.accountUoWFactory(), c.hasher, c.authority)
	return &h
}

func (c *CompositionRoot) CreateUpdatePartnerCommandHandler() *commands.UpdatePartnerCommandHandler {
	h := commands.NewUpdatePartnerCommandHandler(c.accountUoWFactory())
	return &h
}

func (c *CompositionRoot) CreateGetShipmentQueryHandler() *queries.GetShipmentQueryHandler {
	h := queries.NewGetShipmentQueryHandler(c.gormDB)
	return &h
}

func (c *CompositionRoot) CreateGetTaggedShipmentsQueryHandler() *queries.GetTaggedShipmentsQueryHandler {
	h := queries.NewGetTaggedShipmentsQueryHandler(c.gormDB)
	return &h
}

type FuncShipmentUoWFactory func() commands.ShipmentUoW

func (f FuncShipmentUoWFactory) Create() commands.ShipmentUoW {
	return f()
}

type FuncReviewUoWFactory func() commands.ReviewUoW

func (f FuncReviewUoWFactory) Create() commands.ReviewUoW {
	return f()
}

type FuncAccountUoWFactory func() commands.AccountUoW

func (f FuncAccountUoWFactory) Create() commands.AccountUoW {
	return f()
}
