// Package telemetry consumes live device telemetry.
package telemetry

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/Felixhuangsiling/front-pfee/internal/client"
	"github.com/Felixhuangsiling/front-pfee/internal/metrics"
	"github.com/jpillora/backoff"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

const (
	SourceSSE  = "sse"
	SourceMQTT = "mqtt"

	// defaultReconnectDelay is the delay before reopening a dropped stream
	// when the server did not set one.
	defaultReconnectDelay = 3 * time.Second
	maxReconnectDelay     = 30 * time.Second
)

var (
	ErrStream = errors.New("error in telemetry stream")
)

// Handler receives the data of each message, uninterpreted.
type Handler func(data string)

// Opener opens the event stream body, lastEventID is empty on the first connection.
type Opener func(ctx context.Context, lastEventID string) (io.ReadCloser, error)

// ClientOpener returns an Opener for a stream endpoint of the backend client,
// the client is resolved from clients on every connection.
func ClientOpener(clients client.Getter, path string, query url.Values) Opener {
	return func(ctx context.Context, lastEventID string) (io.ReadCloser, error) {
		header := http.Header{}
		if lastEventID != "" {
			header.Set("Last-Event-ID", lastEventID)
		}

		resp, err := clients.Client().Stream(ctx, path, query, header)
		if err != nil {
			return nil, err
		}

		return resp.Body, nil
	}
}

// Stream is a server-sent event stream consumer.
//
// A dropped connection is reopened after a delay until the context is canceled,
// a response with an unexpected status code closes the stream for good.
type Stream struct {
	open    Opener
	handler Handler
	logger  *logrus.Logger

	// minDelay is the reconnect delay when the server did not set one
	minDelay time.Duration

	done chan struct{}

	mu  sync.Mutex
	err error
}

// StreamOption customizes a Stream.
type StreamOption func(*Stream)

// WithReconnectDelay sets the reconnect delay used until the server sends a retry field.
func WithReconnectDelay(d time.Duration) StreamOption {
	return func(s *Stream) {
		s.minDelay = d
	}
}

// Open starts consuming the stream in the background, messages are passed to handler
// in the order they are received.
func Open(ctx context.Context, open Opener, handler Handler, logger *logrus.Logger, opts ...StreamOption) *Stream {
	s := &Stream{
		open:     open,
		handler:  handler,
		logger:   logger,
		minDelay: defaultReconnectDelay,
		done:     make(chan struct{}),
	}

	if s.logger == nil {
		s.logger = logrus.New()
	}

	for _, opt := range opts {
		opt(s)
	}

	go s.run(ctx)

	return s
}

// Done is closed once the stream has stopped.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Err returns the reason the stream stopped, it is nil while the stream is running.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

func (s *Stream) run(ctx context.Context) {
	defer close(s.done)

	b := &backoff.Backoff{
		Min:    s.minDelay,
		Max:    maxReconnectDelay,
		Factor: 2,
		Jitter: true,
	}

	var lastEventID string

	for {
		body, err := s.open(ctx, lastEventID)
		if err != nil {
			var respErr *client.ResponseError
			if errors.As(err, &respErr) {
				s.stop(errors.Wrap(ErrStream, err.Error()))
				return
			}

			s.logger.WithError(err).Debug("telemetry stream open failed")
		} else {
			var received bool

			lastEventID, received = s.consume(body, lastEventID, b)
			body.Close()

			if received {
				b.Reset()
			}
		}

		if ctx.Err() != nil {
			s.stop(ctx.Err())
			return
		}

		delay := b.Duration()

		s.logger.WithFields(logrus.Fields{
			"delay":       delay.String(),
			"lastEventID": lastEventID,
		}).Debug("telemetry stream reconnecting")

		metrics.StreamReconnectCounter.With(prometheus.Labels{"source": SourceSSE}).Inc()

		timer := time.NewTimer(delay)

		select {
		case <-ctx.Done():
			timer.Stop()
			s.stop(ctx.Err())

			return
		case <-timer.C:
		}
	}
}

// consume dispatches events until the body ends, it returns the last event id and
// whether any message was received.
func (s *Stream) consume(body io.Reader, lastEventID string, b *backoff.Backoff) (string, bool) {
	dec := newDecoder(body, lastEventID)

	var received bool

	for {
		event, err := dec.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.logger.WithError(err).Debug("telemetry stream read failed")
			}

			break
		}

		if event.Type != defaultEventType {
			s.logger.WithField("event", event.Type).Trace("telemetry event ignored")
			continue
		}

		received = true

		metrics.StreamMessagesCounter.With(prometheus.Labels{"source": SourceSSE}).Inc()

		s.handler(event.Data)
	}

	if retry := dec.Retry(); retry > 0 {
		b.Min = retry
	}

	return dec.LastEventID(), received
}

func (s *Stream) stop(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = err

	s.logger.WithField("reason", err.Error()).Debug("telemetry stream closed")
}

// StreamQuery returns the query of the device stream endpoint.
func StreamQuery(deviceTopic string, duration int) url.Values {
	return url.Values{
		"topic":    {deviceTopic},
		"duration": {strconv.Itoa(duration)},
	}
}
