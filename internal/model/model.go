package model

const (
	AppName = "pfee"

	LogLevelInfo  = 0
	LogLevelDebug = 1
	LogLevelTrace = 2

	// StatusTopicSuffix identifies the device status channel carrying energy readings.
	StatusTopicSuffix = "STATUS8"

	// StreamDuration is the duration parameter sent when opening a telemetry stream.
	StreamDuration = 2

	// DefaultPageSize is the page size of paginated lists when none is given.
	DefaultPageSize = 10
)

// TelemetrySource is where live device messages are read from.
type TelemetrySource string

const (
	// TelemetrySourceSSE reads the backend server-sent event stream.
	TelemetrySourceSSE TelemetrySource = "sse"
	// TelemetrySourceMQTT reads the device status topic off the broker directly.
	TelemetrySourceMQTT TelemetrySource = "mqtt"
)

// TelemetrySources returns the supported telemetry sources
func TelemetrySources() []TelemetrySource {
	return []TelemetrySource{TelemetrySourceSSE, TelemetrySourceMQTT}
}

// OutputFormat is the CLI rendering format.
type OutputFormat string

const (
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
	OutputDump OutputFormat = "dump"
)

// StatusTopic returns the fully qualified device status topic for a device topic.
//
//	StatusTopic("borne-12") == "stat/borne-12/STATUS8"
func StatusTopic(deviceTopic string) string {
	return "stat/" + deviceTopic + "/" + StatusTopicSuffix
}

// Page holds the pagination attributes returned alongside a page of records.
type Page struct {
	TotalElements int64 `json:"totalElements" yaml:"totalElements"`
	TotalPages    int   `json:"totalPages" yaml:"totalPages"`
	Page          int   `json:"page" yaml:"page"`
	Size          int   `json:"size" yaml:"size"`
}
