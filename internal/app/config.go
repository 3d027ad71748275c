package app

import (
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Felixhuangsiling/front-pfee/internal/client"
	"github.com/Felixhuangsiling/front-pfee/internal/geocode"
	"github.com/Felixhuangsiling/front-pfee/internal/metrics"
	"github.com/Felixhuangsiling/front-pfee/internal/model"
	"github.com/Felixhuangsiling/front-pfee/internal/telemetry"
	"github.com/hashicorp/go-multierror"
	"github.com/jeremywohl/flatten"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

const (
	defaultConfigFile = ".pfee.yml"
	dotEnvFile        = ".env"
)

var (
	ErrConfig = errors.New("configuration error")
)

// Configuration holds application configuration read from a YAML or set by env variables.
//
// nolint:govet // prefer readability over field alignment optimization for this case.
type Configuration struct {
	// LogLevel is the app verbose logging level.
	// one of - info, debug, trace
	LogLevel string `mapstructure:"log_level"`

	// API holds the backend client configuration.
	API *APIOptions `mapstructure:"api"`

	Geocoding *GeocodingOptions `mapstructure:"geocoding"`

	Telemetry *TelemetryOptions `mapstructure:"telemetry"`

	Metrics *MetricsOptions `mapstructure:"metrics"`
}

// APIOptions defines configuration for the backend API client and the identity
// the requests are sent as.
//
// The identity is, in order of precedence, the pre-issued token, the Firebase
// refresh token, then the OIDC client credentials.
type APIOptions struct {
	Endpoint             string           `mapstructure:"endpoint"`
	Token                string           `mapstructure:"token"`
	Firebase             *FirebaseOptions `mapstructure:"firebase"`
	OidcIssuerEndpoint   string           `mapstructure:"oidc_issuer_endpoint"`
	OidcAudienceEndpoint string           `mapstructure:"oidc_audience_endpoint"`
	OidcClientSecret     string           `mapstructure:"oidc_client_secret"`
	OidcClientID         string           `mapstructure:"oidc_client_id"`
	OidcClientScopes     []string         `mapstructure:"oidc_client_scopes"`
	DisableOAuth         bool             `mapstructure:"disable_oauth"`
}

// FirebaseOptions is a signed in Firebase user session.
type FirebaseOptions struct {
	APIKey       string `mapstructure:"api_key"`
	RefreshToken string `mapstructure:"refresh_token"`
	Endpoint     string `mapstructure:"endpoint"`
}

type GeocodingOptions struct {
	Endpoint  string `mapstructure:"endpoint"`
	UserAgent string `mapstructure:"user_agent"`
}

// TelemetryOptions configures the live device telemetry consumer.
type TelemetryOptions struct {
	// Source is one of sse, mqtt
	Source         string                 `mapstructure:"source"`
	ReconnectDelay time.Duration          `mapstructure:"reconnect_delay"`
	MQTT           *telemetry.MQTTOptions `mapstructure:"mqtt"`
}

type MetricsOptions struct {
	ListenAddress string `mapstructure:"listen_address"`
}

// LoadConfiguration loads application configuration
//
// Reads in the cfgFile when available and overrides from environment variables,
// a .env file in the working directory is loaded into the environment first.
func (a *App) LoadConfiguration(cfgFile string) error {
	// variables already set in the environment take precedence over the .env file
	if err := godotenv.Load(dotEnvFile); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(ErrConfig, "dotenv error: "+err.Error())
	}

	a.v.SetConfigType("yaml")
	a.v.SetEnvPrefix(model.AppName)
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	// these are initialized here so viper can read in configuration from env vars
	a.Config.API = &APIOptions{Firebase: &FirebaseOptions{}}
	a.Config.Geocoding = &GeocodingOptions{}
	a.Config.Telemetry = &TelemetryOptions{MQTT: &telemetry.MQTTOptions{}}
	a.Config.Metrics = &MetricsOptions{}

	if cfgFile == "" {
		cfgFile = defaultConfigPath()
	}

	if cfgFile != "" {
		fh, err := os.Open(cfgFile)
		if err != nil {
			return errors.Wrap(ErrConfig, err.Error())
		}

		defer fh.Close()

		if err = a.v.ReadConfig(fh); err != nil {
			return errors.Wrap(ErrConfig, "ReadConfig error:"+err.Error())
		}
	}

	a.v.SetDefault("log_level", "info")
	a.v.SetDefault("api.endpoint", client.DefaultEndpoint)
	a.v.SetDefault("geocoding.endpoint", geocode.DefaultEndpoint)
	a.v.SetDefault("geocoding.user_agent", model.AppName)
	a.v.SetDefault("telemetry.source", string(model.TelemetrySourceSSE))
	a.v.SetDefault("telemetry.reconnect_delay", "3s")
	a.v.SetDefault("telemetry.mqtt.client_id", model.AppName)
	a.v.SetDefault("metrics.listen_address", metrics.MetricsEndpoint)

	if err := a.envBindVars(); err != nil {
		return errors.Wrap(ErrConfig, "env var bind error:"+err.Error())
	}

	if err := a.v.Unmarshal(a.Config); err != nil {
		return errors.Wrap(ErrConfig, "Unmarshal error: "+err.Error())
	}

	if err := a.Config.validate(); err != nil {
		return errors.Wrap(ErrConfig, err.Error())
	}

	return nil
}

// returns ~/.pfee.yml when present
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	p := filepath.Join(home, defaultConfigFile)
	if _, err := os.Stat(p); err != nil {
		return ""
	}

	return p
}

// envBindVars binds environment variables to the struct
// without a configuration file being unmarshalled,
// this is a workaround for a viper bug,
//
// This can be replaced by the solution in https://github.com/spf13/viper/pull/1429
// once that PR is merged.
func (a *App) envBindVars() error {
	envKeysMap := map[string]interface{}{}
	if err := mapstructure.Decode(a.Config, &envKeysMap); err != nil {
		return err
	}

	// Flatten nested conf map
	flat, err := flatten.Flatten(envKeysMap, "", flatten.DotStyle)
	if err != nil {
		return errors.Wrap(err, "Unable to flatten config")
	}

	for k := range flat {
		if err := a.v.BindEnv(k); err != nil {
			return errors.Wrap(ErrConfig, "env var bind error: "+err.Error())
		}
	}

	// the dashboard build variables are accepted as fallbacks
	fallbacks := map[string]string{
		"api.endpoint":       "VITE_API_URL",
		"geocoding.endpoint": "VITE_OSM_NOMINATIM_URL",
	}

	for k, env := range fallbacks {
		prefixed := strings.ToUpper(model.AppName + "_" + strings.ReplaceAll(k, ".", "_"))

		if err := a.v.BindEnv(k, prefixed, env); err != nil {
			return errors.Wrap(ErrConfig, "env var bind error: "+err.Error())
		}
	}

	return nil
}

// nolint:gocyclo // parameter validation is cyclomatic
func (c *Configuration) validate() error {
	var merr *multierror.Error

	for k, endpoint := range map[string]string{
		"api.endpoint":       c.API.Endpoint,
		"geocoding.endpoint": c.Geocoding.Endpoint,
	} {
		u, err := url.Parse(endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			merr = multierror.Append(merr, errors.New(k+" expected an http(s) URL: "+endpoint))
		}
	}

	if !slices.Contains(model.TelemetrySources(), model.TelemetrySource(c.Telemetry.Source)) {
		merr = multierror.Append(merr, errors.New("telemetry.source expected one of sse, mqtt: "+c.Telemetry.Source))
	}

	if c.Telemetry.Source == string(model.TelemetrySourceMQTT) && c.Telemetry.MQTT.Broker == "" {
		merr = multierror.Append(merr, errors.New("telemetry.mqtt.broker not defined"))
	}

	if c.API.DisableOAuth {
		return merr.ErrorOrNil()
	}

	if c.API.Firebase.RefreshToken != "" && c.API.Firebase.APIKey == "" {
		merr = multierror.Append(merr, errors.New("api.firebase.api_key not defined"))
	}

	if c.API.OidcIssuerEndpoint != "" {
		if c.API.OidcClientID == "" {
			merr = multierror.Append(merr, errors.New("api.oidc_client_id not defined"))
		}

		if c.API.OidcClientSecret == "" {
			merr = multierror.Append(merr, errors.New("api.oidc_client_secret not defined"))
		}
	}

	return merr.ErrorOrNil()
}
