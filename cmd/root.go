package cmd

import (
	"context"
	"log"
	"os"

	"github.com/Felixhuangsiling/front-pfee/internal/app"
	"github.com/Felixhuangsiling/front-pfee/internal/metrics"
	"github.com/Felixhuangsiling/front-pfee/internal/model"
	"github.com/Felixhuangsiling/front-pfee/internal/version"
	"github.com/equinix-labs/otel-init-go/otelinit"
	"github.com/spf13/cobra"
)

var (
	cfgFile       string
	debug         bool
	trace         bool
	logLevel      int
	outputFormat  string
	enableMetrics bool
)

var rootCmd = &cobra.Command{
	Use:   model.AppName,
	Short: "Manage the charging stations, sites and users of the bornes backend",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		switch {
		case trace:
			logLevel = model.LogLevelTrace
		case debug:
			logLevel = model.LogLevelDebug
		default:
			logLevel = model.LogLevelInfo
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// session sets up the app for a command, the returned func signs out and
// flushes traces, it is to be deferred by the caller.
func session(ctx context.Context) (*app.App, context.Context, func()) {
	pfee, termCh, err := app.New(cfgFile, logLevel)
	if err != nil {
		log.Fatal(err)
	}

	// serve metrics endpoint
	if enableMetrics {
		version.ExportBuildInfoMetric()
		metrics.ListenAndServe(pfee.Config.Metrics.ListenAddress)
	}

	ctx, otelShutdown := otelinit.InitOpenTelemetry(ctx, model.AppName)

	// Setup cancel context with cancel func.
	ctx, cancelFunc := context.WithCancel(ctx)

	// routine listens for termination signal and cancels the context
	go func() {
		select {
		case <-termCh:
			pfee.Logger.Info("got TERM signal, exiting...")
			cancelFunc()
		case <-ctx.Done():
		}
	}()

	if err := pfee.SignIn(ctx); err != nil {
		pfee.Logger.Fatal(err)
	}

	return pfee, ctx, func() {
		pfee.SignOut()
		otelShutdown(ctx)
		cancelFunc()
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "configuration file (default is $HOME/.pfee.yml)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "", false, "Set logging to debug level")
	rootCmd.PersistentFlags().BoolVarP(&trace, "trace", "", false, "Set logging to trace level - critical data is not redacted")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", string(model.OutputJSON), "Output format - json, yaml or dump")
	rootCmd.PersistentFlags().BoolVarP(&enableMetrics, "metrics", "", false, "Expose prometheus metrics while the command runs")
}
