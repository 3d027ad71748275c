package telemetry

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"
)

const (
	// maxLineSize bounds a single line of the event stream.
	maxLineSize = 1 << 20

	defaultEventType = "message"
)

// Event is a server-sent event.
type Event struct {
	ID    string
	Type  string
	Data  string
	Retry time.Duration
}

// decoder reads events from a text/event-stream body.
type decoder struct {
	scanner *bufio.Scanner

	lastEventID string
	retry       time.Duration
}

func newDecoder(r io.Reader, lastEventID string) *decoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	return &decoder{scanner: scanner, lastEventID: lastEventID}
}

// Next returns the next event carrying data, events without a data field are dropped.
// At the end of the body the returned error is io.EOF, an event not terminated
// by a blank line is discarded.
func (d *decoder) Next() (Event, error) {
	var (
		data      strings.Builder
		eventType string
		hasData   bool
	)

	for d.scanner.Scan() {
		line := strings.TrimSuffix(d.scanner.Text(), "\r")

		if line == "" {
			if !hasData {
				eventType = ""
				continue
			}

			if eventType == "" {
				eventType = defaultEventType
			}

			return Event{ID: d.lastEventID, Type: eventType, Data: data.String(), Retry: d.retry}, nil
		}

		// comment
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")

		switch field {
		case "data":
			if hasData {
				data.WriteByte('\n')
			}

			data.WriteString(value)
			hasData = true
		case "event":
			eventType = value
		case "id":
			if !strings.ContainsRune(value, 0) {
				d.lastEventID = value
			}
		case "retry":
			if ms, err := strconv.ParseUint(value, 10, 32); err == nil {
				d.retry = time.Duration(ms) * time.Millisecond
			}
		}
	}

	if err := d.scanner.Err(); err != nil {
		return Event{}, err
	}

	return Event{}, io.EOF
}

// LastEventID returns the last id field seen on the stream.
func (d *decoder) LastEventID() string {
	return d.lastEventID
}

// Retry returns the reconnection delay set by the server, zero when none was sent.
func (d *decoder) Retry() time.Duration {
	return d.retry
}
