package cmd

import (
	"context"
	"fmt"

	"github.com/Felixhuangsiling/front-pfee/internal/app"
	"github.com/Felixhuangsiling/front-pfee/internal/borne"
	"github.com/Felixhuangsiling/front-pfee/internal/model"
	"github.com/Felixhuangsiling/front-pfee/internal/telemetry"
	"github.com/spf13/cobra"
)

type borneFlags struct {
	id          int64
	all         bool
	page        int
	size        int
	filter      model.EquipmentFilter
	deviceTopic string
	source      string
	raw         bool
	timeRange   string
}

var (
	borneOpts = &borneFlags{}
)

var cmdBorne = &cobra.Command{
	Use:   "borne",
	Short: "List, create, delete and watch charging stations",
}

var cmdBorneList = &cobra.Command{
	Use:   "list",
	Short: "List charging stations, one page at a time unless --all is set",
	Run: func(cmd *cobra.Command, _ []string) {
		pfee, ctx, done := session(cmd.Context())
		defer done()

		if borneOpts.all {
			l := borne.NewBornesList(pfee.Provider, pfee.Stores.Bornes, pfee.Logger)
			render(mustSucceed(pfee.Logger, l.Fetch(ctx)))

			return
		}

		l := borne.NewPaginatedBornesList(
			pfee.Provider,
			pfee.Stores.Bornes,
			pfee.Logger,
			model.Pagination{Page: borneOpts.page, Size: borneOpts.size},
			borneOpts.filter,
		)

		result, _ := l.Mount(ctx)
		render(mustSucceed(pfee.Logger, result))
	},
}

var cmdBorneCreate = &cobra.Command{
	Use:   "create",
	Short: "Create a charging station",
	Run: func(cmd *cobra.Command, _ []string) {
		pfee, ctx, done := session(cmd.Context())
		defer done()

		b := model.Borne{
			Name:         borneOpts.filter.Name,
			Type:         borneOpts.filter.Type,
			Status:       borneOpts.filter.Status,
			Manufacturer: borneOpts.filter.Manufacturer,
			SiteName:     borneOpts.filter.SiteName,
		}

		c := borne.NewCreateBorne(pfee.Provider, pfee.Stores.Bornes, pfee.Logger)
		render(mustSucceed(pfee.Logger, c.Create(ctx, b)))
	},
}

var cmdBorneDelete = &cobra.Command{
	Use:   "delete",
	Short: "Delete a charging station",
	Run: func(cmd *cobra.Command, _ []string) {
		pfee, ctx, done := session(cmd.Context())
		defer done()

		d := borne.NewDeleteBorne(pfee.Provider, pfee.Stores.Bornes, pfee.Logger)
		renderPayload(mustSucceed(pfee.Logger, d.Delete(ctx, borneOpts.id)))

		pfee.Logger.WithField("id", borneOpts.id).Info("borne deleted")
	},
}

var cmdBorneHistory = &cobra.Command{
	Use:   "history",
	Short: "Print the energy history of a charging station",
	Run: func(cmd *cobra.Command, _ []string) {
		pfee, ctx, done := session(cmd.Context())
		defer done()

		d := borne.NewDetails(pfee.Provider, pfee.Logger)

		ok, history, message := d.FetchHistory(ctx, borneOpts.id, borneOpts.timeRange)
		if !ok {
			pfee.Logger.Fatal(message)
		}

		render(history)
	},
}

var cmdBorneWatch = &cobra.Command{
	Use:   "watch",
	Short: "Print the live energy readings of a charging station until interrupted",
	Run: func(cmd *cobra.Command, _ []string) {
		pfee, ctx, done := session(cmd.Context())
		defer done()

		source := borneOpts.source
		if source == "" {
			source = pfee.Config.Telemetry.Source
		}

		handler := borne.ApplyTelemetry(pfee.Stores.Bornes, borneOpts.id, pfee.Logger, func(t *model.Telemetry) {
			render(t)
		})

		if borneOpts.raw {
			handler = func(data string) { fmt.Println(data) }
		}

		switch model.TelemetrySource(source) {
		case model.TelemetrySourceMQTT:
			watchMQTT(ctx, pfee, handler)
		default:
			d := borne.NewDetails(
				pfee.Provider,
				pfee.Logger,
				telemetry.WithReconnectDelay(pfee.Config.Telemetry.ReconnectDelay),
			)

			if !borneOpts.raw {
				// seed the store so readings are attached to the borne
				borne.NewBornesList(pfee.Provider, pfee.Stores.Bornes, pfee.Logger).Fetch(ctx)
			}

			stream := d.SubscribeAndStream(ctx, borneOpts.deviceTopic, handler)
			if msg := d.ErrMessage(); msg != "" {
				pfee.Logger.WithField("topic", borneOpts.deviceTopic).Warn("subscribe failed: " + msg)
			}

			<-stream.Done()

			if err := stream.Err(); err != nil && ctx.Err() == nil {
				pfee.Logger.Fatal(err)
			}
		}
	},
}

func watchMQTT(ctx context.Context, pfee *app.App, handler telemetry.Handler) {
	src, err := telemetry.NewMQTTSource(pfee.Config.Telemetry.MQTT, pfee.Logger)
	if err != nil {
		pfee.Logger.Fatal(err)
	}

	defer src.Close()

	if err := src.Subscribe(ctx, borneOpts.deviceTopic, handler); err != nil && ctx.Err() == nil {
		pfee.Logger.Fatal(err)
	}
}

func init() {
	cmdBorneList.Flags().BoolVar(&borneOpts.all, "all", false, "list every charging station instead of a single page")
	cmdBorneList.Flags().IntVar(&borneOpts.page, "page", 0, "page number, starting at 0")
	cmdBorneList.Flags().IntVar(&borneOpts.size, "size", model.DefaultPageSize, "page size")

	for _, c := range []*cobra.Command{cmdBorneList, cmdBorneCreate} {
		c.Flags().StringVar(&borneOpts.filter.Name, "name", "", "charging station name")
		c.Flags().StringVar(&borneOpts.filter.Type, "type", "", "charging station type")
		c.Flags().StringVar(&borneOpts.filter.Status, "status", "", "charging station status")
		c.Flags().StringVar(&borneOpts.filter.Manufacturer, "manufacturer", "", "charging station manufacturer")
		c.Flags().StringVar(&borneOpts.filter.SiteName, "site-name", "", "name of the site the charging station is installed at")
	}

	if err := cmdBorneCreate.MarkFlagRequired("name"); err != nil {
		panic(err)
	}

	for _, c := range []*cobra.Command{cmdBorneDelete, cmdBorneHistory, cmdBorneWatch} {
		c.Flags().Int64Var(&borneOpts.id, "id", 0, "charging station identifier")

		if err := c.MarkFlagRequired("id"); err != nil {
			panic(err)
		}
	}

	cmdBorneHistory.Flags().StringVar(&borneOpts.timeRange, "time", "day", "history time range, as accepted by the backend")

	cmdBorneWatch.Flags().StringVar(&borneOpts.deviceTopic, "topic", "", "device topic of the charging station")
	cmdBorneWatch.Flags().StringVar(&borneOpts.source, "source", "", "telemetry source - sse or mqtt, overrides the configuration")
	cmdBorneWatch.Flags().BoolVar(&borneOpts.raw, "raw", false, "print the message data as received")

	if err := cmdBorneWatch.MarkFlagRequired("topic"); err != nil {
		panic(err)
	}

	cmdBorne.AddCommand(cmdBorneList, cmdBorneCreate, cmdBorneDelete, cmdBorneHistory, cmdBorneWatch)
	rootCmd.AddCommand(cmdBorne)
}
