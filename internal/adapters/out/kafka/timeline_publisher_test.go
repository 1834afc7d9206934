package kafka_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"fastship/internal/adapters/out/kafka"
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/shipment"

	skafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWriter is a test writer that records messages written.
type fakeWriter struct {
	msgs   []skafka.Message
	calls  int
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...skafka.Message) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func placedAndScanned(t *testing.T) []*shipment.Event {
	t.Helper()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	timeline, err := shipment.NewTimeline(kernel.NewUUID())
	require.NoError(t, err)
	_, err = timeline.Append(shipment.EventDraft{Status: shipment.Placed, Location: kernel.MustPostalCode(11001)}, now)
	require.NoError(t, err)
	_, err = timeline.Append(shipment.EventDraft{Status: shipment.InTransit, Location: kernel.MustPostalCode(11500)},
		now.Add(time.Hour))
	require.NoError(t, err)

	return timeline.History()
}

func TestPublish_WritesOneBatchKeyedByShipment(t *testing.T) {
	fw := &fakeWriter{}
	p := kafka.NewTimelinePublisherWithWriter(fw)
	events := placedAndScanned(t)

	require.NoError(t, p.Publish(context.Background(), events...))

	assert.Equal(t, 1, fw.calls)
	require.Len(t, fw.msgs, 2)
	for i, msg := range fw.msgs {
		assert.Equal(t, events[i].ShipmentID().String(), string(msg.Key))
		assert.Equal(t, events[i].CreatedAt(), msg.Time)
	}

	var second kafka.TimelineEvent
	require.NoError(t, json.Unmarshal(fw.msgs[1].Value, &second))
	assert.Equal(t, "in_transit", second.Status)
	assert.Equal(t, 11500, second.Location)
	assert.Equal(t, 2, second.Sequence)
	assert.Equal(t, "scanned at 11500", second.Description)
	assert.Equal(t, events[1].ID().String(), second.EventID)
}

func TestPublish_NothingToWrite(t *testing.T) {
	fw := &fakeWriter{}
	p := kafka.NewTimelinePublisherWithWriter(fw)

	require.NoError(t, p.Publish(context.Background()))

	assert.Zero(t, fw.calls)
}

func TestPublish_WriterError(t *testing.T) {
	fw := &fakeWriter{err: errors.New("leader not available")}
	p := kafka.NewTimelinePublisherWithWriter(fw)

	err := p.Publish(context.Background(), placedAndScanned(t)...)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write 2 timeline events")
}

func TestClose_ClosesWriter(t *testing.T) {
	fw := &fakeWriter{}

	require.NoError(t, kafka.NewTimelinePublisherWithWriter(fw).Close())
	assert.True(t, fw.closed)
}
