package borne

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/Felixhuangsiling/front-pfee/internal/client"
	"github.com/Felixhuangsiling/front-pfee/internal/model"
	"github.com/Felixhuangsiling/front-pfee/internal/operation"
	"github.com/Felixhuangsiling/front-pfee/internal/store"
	"github.com/Felixhuangsiling/front-pfee/internal/telemetry"
	"github.com/sirupsen/logrus"
)

const (
	pathSubscribe = "mqtt/subscribe"
	pathStream    = "mqtt/data/stream"
	pathHistory   = "history/energy/equipment"
)

// Details subscribes to the live telemetry of a borne and queries its energy history.
type Details struct {
	*operation.Outcome

	clients    client.Getter
	logger     *logrus.Logger
	streamOpts []telemetry.StreamOption

	mu     sync.Mutex
	stream *telemetry.Stream
}

func NewDetails(clients client.Getter, logger *logrus.Logger, opts ...telemetry.StreamOption) *Details {
	return &Details{
		Outcome:    operation.NewOutcome(true),
		clients:    clients,
		logger:     logger,
		streamOpts: opts,
	}
}

// SubscribeAndStream asks the backend to subscribe to the device status topic,
// then opens the device event stream, each message data is passed to onMessage as is.
//
// A failed subscribe is recorded in the error slot, the stream is opened regardless.
// The stream runs until ctx is canceled.
func (d *Details) SubscribeAndStream(ctx context.Context, deviceTopic string, onMessage telemetry.Handler) *telemetry.Stream {
	op := operation.Op{Name: "borne.subscribe", Logger: d.logger}

	operation.Run(ctx, d.Outcome, op, func(ctx context.Context) (struct{}, error) {
		query := url.Values{"topic": {model.StatusTopic(deviceTopic)}}

		return struct{}{}, d.clients.Client().Do(ctx, http.MethodPost, pathSubscribe, nil, nil, client.WithQuery(query))
	})

	stream := telemetry.Open(
		ctx,
		telemetry.ClientOpener(d.clients, pathStream, telemetry.StreamQuery(deviceTopic, model.StreamDuration)),
		onMessage,
		d.logger,
		d.streamOpts...,
	)

	d.mu.Lock()
	d.stream = stream
	d.mu.Unlock()

	return stream
}

// Stream returns the last stream opened, nil if none was.
func (d *Details) Stream() *telemetry.Stream {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.stream
}

// FetchHistory returns the energy history of the borne over timeRange
// as (succeeded, data, message), message is "no error" on success.
//
// The history is decoded as generic JSON values, its shape is owned by the backend.
func (d *Details) FetchHistory(ctx context.Context, id int64, timeRange string) (bool, any, string) {
	op := operation.Op{Name: "borne.history", Logger: d.logger}

	return operation.Run(ctx, d.Outcome, op, func(ctx context.Context) (any, error) {
		var history any

		path := pathHistory + "/" + strconv.FormatInt(id, 10)
		query := url.Values{"time": {timeRange}}

		if err := d.clients.Client().Do(ctx, http.MethodGet, path, nil, &history, client.WithQuery(query)); err != nil {
			return nil, err
		}

		return history, nil
	}).Tuple()
}

// ApplyTelemetry returns a message handler that decodes STATUS8 payloads and
// sets them as the telemetry of the borne with the given id in the store.
//
// Payloads that do not decode are logged and skipped, the decoded reading is
// also passed to next when set.
func ApplyTelemetry(s *store.Bornes, id int64, logger *logrus.Logger, next func(*model.Telemetry)) telemetry.Handler {
	key := strconv.FormatInt(id, 10)

	return func(data string) {
		reading, err := model.ParseStatus8(data)
		if err != nil {
			logger.WithError(err).WithField("borne", key).Debug("telemetry message skipped")
			return
		}

		if borne, ok := s.Get(key); ok {
			borne.Telemetry = reading
			s.Update(borne)
		}

		if next != nil {
			next(reading)
		}
	}
}
