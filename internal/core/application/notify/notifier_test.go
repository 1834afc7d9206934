package notify_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fastship/internal/core/application/notify"
	"fastship/internal/core/application/views"
	"fastship/internal/core/domain/model/account"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/partner"
	"fastship/internal/core/domain/model/seller"
	"fastship/internal/core/domain/model/shipment"
	"fastship/internal/core/ports"
	"fastship/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockTaskDispatcher struct{ mock.Mock }

func (m *MockTaskDispatcher) Enqueue(ctx context.Context, taskName string, payload any) error {
	args := m.Called(ctx, taskName, payload)
	return args.Error(0)
}

type MockTimelinePublisher struct{ mock.Mock }

func (m *MockTimelinePublisher) Publish(ctx context.Context, events ...*shipment.Event) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type reviewTokens struct {
	token string
	err   error
}

func (r reviewTokens) IssueReviewToken(kernel.UUID) (string, error) {
	return r.token, r.err
}

var now = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newView(t *testing.T) views.ShipmentView {
	t.Helper()

	sellerEmail, _ := kernel.NewEmail("shop@example.com")
	sellerAcc, err := account.New(kernel.NewUUID(), "Acme Shop", sellerEmail, "hash", now)
	require.NoError(t, err)
	sel, err := seller.NewSeller(sellerAcc, "", nil)
	require.NoError(t, err)

	partnerEmail, _ := kernel.NewEmail("rapid@partners.example.com")
	partnerAcc, err := account.New(kernel.NewUUID(), "Rapid", partnerEmail, "hash", now)
	require.NoError(t, err)
	p, err := partner.NewPartner(partnerAcc, []kernel.PostalCode{kernel.MustPostalCode(11002)}, 3)
	require.NoError(t, err)

	contact, _ := kernel.NewEmail("client@example.com")
	s, err := shipment.NewShipment(kernel.NewUUID(), shipment.Details{
		Content:      "books",
		WeightKg:     2,
		Destination:  kernel.MustPostalCode(11002),
		ContactEmail: contact,
	}, sel.ID(), p.ID(), kernel.MustPostalCode(11001), "assigned to Rapid", now, now.Add(72*time.Hour))
	require.NoError(t, err)

	return views.NewShipmentView(s, sel, p)
}

func newNotifier(dispatcher ports.TaskDispatcher, publisher ports.TimelinePublisher, tokens notify.ReviewTokenIssuer) (*notify.Notifier, *metrics.Metrics) {
	m := metrics.New()
	return notify.NewNotifier(notify.Config{AppDomain: "fastship.test", Timeout: time.Second},
		dispatcher, publisher, tokens, zap.NewNop(), m), m
}

func TestNotifier_ShipmentChanged_Placed(t *testing.T) {
	view := newView(t)
	dispatcher := new(MockTaskDispatcher)
	publisher := new(MockTimelinePublisher)
	placed := view.Shipment.Timeline().History()

	dispatcher.On("Enqueue", mock.Anything, ports.TaskSendTemplateEmail, ports.TemplateEmail{
		Recipients: []string{"client@example.com"},
		Subject:    "Your Order is Shipped 🚛",
		Context: map[string]string{
			"seller":  "Acme Shop",
			"id":      view.Shipment.ID().String(),
			"partner": "Rapid",
		},
		Template: "mail_placed.html",
	}).Return(nil).Once()
	publisher.On("Publish", mock.Anything, placed).Return(nil).Once()

	n, m := newNotifier(dispatcher, publisher, reviewTokens{})
	n.ShipmentChanged(t.Context(), view, placed)
	n.Wait()

	dispatcher.AssertExpectations(t)
	publisher.AssertExpectations(t)
	assert.InDelta(t, 1, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("mail_placed.html", metrics.ResultOK)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.TimelineEventsPublished.WithLabelValues(metrics.ResultOK)), 0)
}

func TestNotifier_ShipmentChanged_DeliveredCarriesReviewLink(t *testing.T) {
	view := newView(t)
	event, err := view.Shipment.Append(shipment.EventDraft{Status: shipment.Delivered}, now.Add(time.Hour))
	require.NoError(t, err)

	dispatcher := new(MockTaskDispatcher)
	dispatcher.On("Enqueue", mock.Anything, ports.TaskSendTemplateEmail, mock.MatchedBy(func(e ports.TemplateEmail) bool {
		return e.Template == "mail_delivered.html" &&
			e.Context["seller"] == "Acme Shop" &&
			e.Context["review_url"] == "http://fastship.test/shipment/review?token=review-token"
	})).Return(nil).Once()

	n, _ := newNotifier(dispatcher, nil, reviewTokens{token: "review-token"})
	n.ShipmentChanged(t.Context(), view, []*shipment.Event{event})
	n.Wait()

	dispatcher.AssertExpectations(t)
}

func TestNotifier_ShipmentChanged_InTransitIsQuiet(t *testing.T) {
	view := newView(t)
	event, err := view.Shipment.Append(shipment.EventDraft{Status: shipment.InTransit}, now.Add(time.Hour))
	require.NoError(t, err)

	dispatcher := new(MockTaskDispatcher)
	publisher := new(MockTimelinePublisher)
	publisher.On("Publish", mock.Anything, []*shipment.Event{event}).Return(nil).Once()

	n, _ := newNotifier(dispatcher, publisher, reviewTokens{})
	n.ShipmentChanged(t.Context(), view, []*shipment.Event{event})
	n.Wait()

	dispatcher.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
	publisher.AssertExpectations(t)
}

func TestNotifier_FailuresAreSwallowed(t *testing.T) {
	view := newView(t)
	placed := view.Shipment.Timeline().History()

	dispatcher := new(MockTaskDispatcher)
	dispatcher.On("Enqueue", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()
	publisher := new(MockTimelinePublisher)
	publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("kafka down")).Once()

	n, m := newNotifier(dispatcher, publisher, reviewTokens{})
	n.ShipmentChanged(t.Context(), view, placed)
	n.Wait()

	assert.InDelta(t, 1, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("mail_placed.html", metrics.ResultError)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.TimelineEventsPublished.WithLabelValues(metrics.ResultError)), 0)
}

func TestNotifier_ReviewTokenFailureSkipsEmail(t *testing.T) {
	view := newView(t)
	event, err := view.Shipment.Append(shipment.EventDraft{Status: shipment.Delivered}, now.Add(time.Hour))
	require.NoError(t, err)
	dispatcher := new(MockTaskDispatcher)

	n, m := newNotifier(dispatcher, nil, reviewTokens{err: errors.New("no key")})
	n.ShipmentChanged(t.Context(), view, []*shipment.Event{event})
	n.Wait()

	dispatcher.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything, mock.Anything)
	assert.InDelta(t, 1, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("mail_delivered.html", metrics.ResultError)), 0)
}

func TestNotifier_EnqueueOutlivesRequestContext(t *testing.T) {
	view := newView(t)
	ctx, cancel := context.WithCancel(t.Context())

	dispatcher := new(MockTaskDispatcher)
	dispatcher.On("Enqueue", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), mock.Anything, mock.Anything).Return(nil).Once()

	n, _ := newNotifier(dispatcher, nil, reviewTokens{})
	cancel()
	n.ShipmentChanged(ctx, view, view.Shipment.Timeline().History())
	n.Wait()

	dispatcher.AssertExpectations(t)
}

func TestNotifier_AccountEmails(t *testing.T) {
	email, _ := kernel.NewEmail("shop@example.com")
	acc, err := account.New(kernel.NewUUID(), "Acme Shop", email, "hash", now)
	require.NoError(t, err)

	dispatcher := new(MockTaskDispatcher)
	dispatcher.On("Enqueue", mock.Anything, ports.TaskSendTemplateEmail, mock.MatchedBy(func(e ports.TemplateEmail) bool {
		return e.Template == "mail_email_verify.html" &&
			e.Context["verification_url"] == "http://fastship.test/seller/verify?token=abc"
	})).Return(nil).Once()
	dispatcher.On("Enqueue", mock.Anything, ports.TaskSendTemplateEmail, mock.MatchedBy(func(e ports.TemplateEmail) bool {
		return e.Template == "mail_password_reset.html" &&
			e.Context["reset_url"] == "http://fastship.test/partner/reset_password_form?token=xyz"
	})).Return(nil).Once()

	n, _ := newNotifier(dispatcher, nil, reviewTokens{})
	n.SendVerification(t.Context(), account.RoleSeller, acc, "abc")
	n.SendPasswordReset(t.Context(), account.RolePartner, acc, "xyz")
	n.Wait()

	dispatcher.AssertExpectations(t)
}
