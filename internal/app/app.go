package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Felixhuangsiling/front-pfee/internal/client"
	"github.com/Felixhuangsiling/front-pfee/internal/geocode"
	"github.com/Felixhuangsiling/front-pfee/internal/identity"
	"github.com/Felixhuangsiling/front-pfee/internal/model"
	"github.com/Felixhuangsiling/front-pfee/internal/store"
	"github.com/Felixhuangsiling/front-pfee/internal/version"
	runtime "github.com/banzaicloud/logrus-runtime-formatter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var (
	ErrIdentity = errors.New("identity error")
)

// App holds attributes for the pfee application
type App struct {
	// Viper loads configuration parameters.
	v *viper.Viper
	// App configuration.
	Config *Configuration
	// Logger is the app logger
	Logger *logrus.Logger
	// Provider holds the backend client shared by every operation.
	Provider *client.Provider
	// Stores holds the entities fetched in this session.
	Stores *store.Stores
}

// New returns returns a new instance of the pfee app
func New(cfgFile string, loglevel int) (*App, <-chan os.Signal, error) {
	app := &App{
		v:      viper.New(),
		Config: &Configuration{},
		Logger: logrus.New(),
		Stores: store.New(),
	}

	if err := app.LoadConfiguration(cfgFile); err != nil {
		return nil, nil, err
	}

	// set log level, format
	switch loglevel {
	case model.LogLevelDebug:
		app.Logger.Level = logrus.DebugLevel
	case model.LogLevelTrace:
		app.Logger.Level = logrus.TraceLevel
	default:
		app.Logger.Level = logrus.InfoLevel
	}

	runtimeFormatter := &runtime.Formatter{
		ChildFormatter: &logrus.JSONFormatter{},
		File:           true,
		Line:           true,
		BaseNameOnly:   true,
	}

	app.Logger.SetFormatter(runtimeFormatter)

	provider, err := client.NewProvider(client.Options{
		Endpoint:  app.Config.API.Endpoint,
		UserAgent: userAgent(),
		Logger:    app.Logger,
	})
	if err != nil {
		return nil, nil, errors.Wrap(ErrConfig, err.Error())
	}

	app.Provider = provider

	termCh := make(chan os.Signal, 1)

	// register for SIGINT, SIGTERM
	signal.Notify(termCh, syscall.SIGINT, syscall.SIGTERM)

	return app, termCh, nil
}

func userAgent() string {
	if version.AppVersion == "" {
		return model.AppName
	}

	return model.AppName + "/" + version.AppVersion
}

// Identity returns the identity configured for backend requests,
// nil when requests are to be sent unauthenticated.
func (a *App) Identity(ctx context.Context) (client.Identity, error) {
	cfg := a.Config.API

	switch {
	case cfg.DisableOAuth:
		return nil, nil
	case cfg.Token != "":
		static, err := identity.NewStatic(cfg.Token)
		if err != nil {
			return nil, errors.Wrap(ErrIdentity, err.Error())
		}

		return static, nil
	case cfg.Firebase.RefreshToken != "":
		return identity.NewFirebase(ctx, cfg.Firebase.Endpoint, cfg.Firebase.APIKey, cfg.Firebase.RefreshToken), nil
	case cfg.OidcIssuerEndpoint != "":
		cc, err := identity.NewClientCredentials(ctx, &identity.ClientCredentialsOptions{
			IssuerEndpoint:   cfg.OidcIssuerEndpoint,
			AudienceEndpoint: cfg.OidcAudienceEndpoint,
			ClientID:         cfg.OidcClientID,
			ClientSecret:     cfg.OidcClientSecret,
			Scopes:           cfg.OidcClientScopes,
		})
		if err != nil {
			return nil, errors.Wrap(ErrIdentity, err.Error())
		}

		return cc, nil
	}

	return nil, nil
}

// SignIn attaches the configured identity to the backend client.
func (a *App) SignIn(ctx context.Context) error {
	id, err := a.Identity(ctx)
	if err != nil {
		return err
	}

	if id == nil {
		a.Logger.Debug("no identity configured, requests are sent unauthenticated")
		return nil
	}

	a.Logger.WithField("identity", id.Name()).Debug("identity attached")
	a.Provider.AttachIdentity(id)

	return nil
}

// SignOut drops the backend client along with its identity and empties the stores.
func (a *App) SignOut() {
	a.Provider.Reset()
	a.Stores.Clear()
}

// Geocoder returns the address geocoding client.
func (a *App) Geocoder() (*geocode.AddressValidation, error) {
	return geocode.New(client.Options{
		Endpoint:  a.Config.Geocoding.Endpoint,
		UserAgent: a.Config.Geocoding.UserAgent,
		Logger:    a.Logger,
	})
}
