// Package notify runs the side effects of a committed change: client e-mails
// go to the task queue and appended timeline events go to the event stream.
// Both run detached from the request and never fail it.
package notify

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"fastship/internal/core/application/views"
	"fastship/internal/core/domain/model/account"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/domain/services"
	"fastship/internal/core/ports"
	"fastship/internal/pkg/metrics"

	"go.uber.org/zap"
)

const DefaultTimeout = 10 * time.Second

const (
	templateEmailVerify   = "mail_email_verify.html"
	templatePasswordReset = "mail_password_reset.html"
)

// ReviewTokenIssuer mints the token embedded in the review link of a delivered shipment.
type ReviewTokenIssuer interface {
	IssueReviewToken(shipmentID kernel.UUID) (string, error)
}

type Config struct {
	// AppDomain is the host used in links, e.g. "fastship.example.com".
	AppDomain string
	// Timeout bounds each enqueue/publish call.
	Timeout time.Duration
}

type Notifier struct {
	cfg        Config
	dispatcher ports.TaskDispatcher
	publisher  ports.TimelinePublisher
	tokens     ReviewTokenIssuer
	policy     services.NotificationPolicy
	logger     *zap.Logger
	metrics    *metrics.Metrics

	wg sync.WaitGroup
}

// NewNotifier wires the notifier. publisher may be nil when no event stream is configured.
func NewNotifier(
	cfg Config,
	dispatcher ports.TaskDispatcher,
	publisher ports.TimelinePublisher,
	tokens ReviewTokenIssuer,
	logger *zap.Logger,
	m *metrics.Metrics,
) *Notifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Notifier{
		cfg:        cfg,
		dispatcher: dispatcher,
		publisher:  publisher,
		tokens:     tokens,
		policy:     services.NewNotificationPolicy(),
		logger:     logger.With(zap.String("component", "notifier")),
		metrics:    m,
	}
}

// ShipmentChanged publishes appended and e-mails the client contact when the
// newest appended event's status calls for it.
func (n *Notifier) ShipmentChanged(ctx context.Context, view views.ShipmentView, appended []*shipment.Event) {
	if len(appended) == 0 {
		return
	}

	n.publish(ctx, appended)

	latest := appended[len(appended)-1]
	notification, ok := n.policy.For(latest.Status())
	if !ok {
		return
	}

	templateContext, err := n.templateContext(view, notification.Fields)
	if err != nil {
		n.logger.Error("failed to build notification",
			zap.String("shipment_id", view.Shipment.ID().String()),
			zap.String("template", notification.Template),
			zap.Error(err))
		n.metrics.NotificationsTotal.WithLabelValues(notification.Template, metrics.ResultError).Inc()
		return
	}

	n.enqueue(ctx, ports.TemplateEmail{
		Recipients: []string{view.Shipment.Details().ContactEmail.String()},
		Subject:    notification.Subject,
		Context:    templateContext,
		Template:   notification.Template,
	})
}

// SendVerification e-mails the link that proves control of the account's address.
func (n *Notifier) SendVerification(ctx context.Context, role account.Role, acc account.Account, token string) {
	n.enqueue(ctx, ports.TemplateEmail{
		Recipients: []string{acc.Email().String()},
		Subject:    "Verify Your Account with Fastship",
		Context: map[string]string{
			"username":         acc.Name(),
			"verification_url": n.link("/"+role.String()+"/verify", token),
		},
		Template: templateEmailVerify,
	})
}

// SendPasswordReset e-mails the password reset link.
func (n *Notifier) SendPasswordReset(ctx context.Context, role account.Role, acc account.Account, token string) {
	n.enqueue(ctx, ports.TemplateEmail{
		Recipients: []string{acc.Email().String()},
		Subject:    "Fastship Password Reset Link",
		Context: map[string]string{
			"username":  acc.Name(),
			"reset_url": n.link("/"+role.String()+"/reset_password_form", token),
		},
		Template: templatePasswordReset,
	})
}

// Wait blocks until every side effect started so far has finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) templateContext(view views.ShipmentView, fields []services.ContextField) (map[string]string, error) {
	values := make(map[string]string, len(fields))
	for _, field := range fields {
		switch field {
		case services.FieldSeller:
			if view.Seller != nil {
				values[string(field)] = view.Seller.Name()
			}
		case services.FieldShipmentID:
			values[string(field)] = view.Shipment.ID().String()
		case services.FieldPartner:
			if view.Partner != nil {
				values[string(field)] = view.Partner.Name()
			}
		case services.FieldReviewURL:
			token, err := n.tokens.IssueReviewToken(view.Shipment.ID())
			if err != nil {
				return nil, fmt.Errorf("issue review token: %w", err)
			}
			values[string(field)] = n.link("/shipment/review", token)
		}
	}
	return values, nil
}

func (n *Notifier) link(path, token string) string {
	u := url.URL{
		Scheme:   "http",
		Host:     n.cfg.AppDomain,
		Path:     path,
		RawQuery: url.Values{"token": {token}}.Encode(),
	}
	return u.String()
}

func (n *Notifier) enqueue(ctx context.Context, email ports.TemplateEmail) {
	detached := context.WithoutCancel(ctx)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(detached, n.cfg.Timeout)
		defer cancel()

		if err := n.dispatcher.Enqueue(ctx, ports.TaskSendTemplateEmail, email); err != nil {
			n.logger.Error("failed to enqueue e-mail",
				zap.String("template", email.Template),
				zap.Error(err))
			n.metrics.NotificationsTotal.WithLabelValues(email.Template, metrics.ResultError).Inc()
			return
		}
		n.metrics.NotificationsTotal.WithLabelValues(email.Template, metrics.ResultOK).Inc()
	}()
}

func (n *Notifier) publish(ctx context.Context, events []*shipment.Event) {
	if n.publisher == nil {
		return
	}
	detached := context.WithoutCancel(ctx)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(detached, n.cfg.Timeout)
		defer cancel()

		if err := n.publisher.Publish(ctx, events...); err != nil {
			n.logger.Warn("failed to publish timeline events",
				zap.String("shipment_id", events[0].ShipmentID().String()),
				zap.Int("events", len(events)),
				zap.Error(err))
			n.metrics.TimelineEventsPublished.WithLabelValues(metrics.ResultError).Add(float64(len(events)))
			return
		}
		n.metrics.TimelineEventsPublished.WithLabelValues(metrics.ResultOK).Add(float64(len(events)))
	}()
}
