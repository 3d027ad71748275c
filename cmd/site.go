package cmd

import (
	"context"

	"github.com/Felixhuangsiling/front-pfee/internal/app"
	"github.com/Felixhuangsiling/front-pfee/internal/model"
	"github.com/Felixhuangsiling/front-pfee/internal/site"
	"github.com/spf13/cobra"
)

type siteFlags struct {
	id           int64
	all          bool
	names        bool
	page         int
	size         int
	geocode      bool
	body         model.SiteCreate
	equipmentIDs []int64
}

var (
	siteOpts = &siteFlags{}
)

var cmdSite = &cobra.Command{
	Use:   "site",
	Short: "Manage sites and the charging stations installed at them",
}

var cmdSiteList = &cobra.Command{
	Use:   "list",
	Short: "List sites, one page at a time unless --all or --names is set",
	Run: func(cmd *cobra.Command, _ []string) {
		pfee, ctx, done := session(cmd.Context())
		defer done()

		switch {
		case siteOpts.names:
			l := site.NewSiteNamesList(pfee.Provider, pfee.Logger)
			render(mustSucceed(pfee.Logger, l.Fetch(ctx)))
		case siteOpts.all:
			l := site.NewSiteList(pfee.Provider, pfee.Stores.Sites, pfee.Logger)
			render(mustSucceed(pfee.Logger, l.Fetch(ctx)))
		default:
			l := site.NewPaginatedSiteList(
				pfee.Provider,
				pfee.Stores.Sites,
				pfee.Logger,
				model.Pagination{Page: siteOpts.page, Size: siteOpts.size},
				model.SiteFilter{
					Name:       siteOpts.body.Name,
					Address:    siteOpts.body.Address,
					City:       siteOpts.body.City,
					PostalCode: siteOpts.body.PostalCode,
					Country:    siteOpts.body.Country,
				},
			)

			result, _ := l.Mount(ctx)
			render(mustSucceed(pfee.Logger, result))
		}
	},
}

var cmdSiteCreate = &cobra.Command{
	Use:   "create",
	Short: "Create a site",
	Run: func(cmd *cobra.Command, _ []string) {
		pfee, ctx, done := session(cmd.Context())
		defer done()

		body := siteBody(ctx, pfee)

		c := site.NewCreateSite(pfee.Provider, pfee.Stores.Sites, pfee.Logger)
		render(mustSucceed(pfee.Logger, c.Create(ctx, body)))
	},
}

var cmdSiteUpdate = &cobra.Command{
	Use:   "update",
	Short: "Update a site",
	Run: func(cmd *cobra.Command, _ []string) {
		pfee, ctx, done := session(cmd.Context())
		defer done()

		body := siteBody(ctx, pfee)

		u := site.NewUpdateSite(pfee.Provider, pfee.Stores.Sites, pfee.Logger)
		render(mustSucceed(pfee.Logger, u.Update(ctx, siteOpts.id, body)))
	},
}

var cmdSiteDelete = &cobra.Command{
	Use:   "delete",
	Short: "Delete a site",
	Run: func(cmd *cobra.Command, _ []string) {
		pfee, ctx, done := session(cmd.Context())
		defer done()

		d := site.NewDeleteSite(pfee.Provider, pfee.Stores.Sites, pfee.Logger)
		renderPayload(mustSucceed(pfee.Logger, d.Delete(ctx, siteOpts.id)))

		pfee.Logger.WithField("id", siteOpts.id).Info("site deleted")
	},
}

var cmdSiteAddEquipment = &cobra.Command{
	Use:   "add-equipment",
	Short: "Attach charging stations to a site",
	Run: func(cmd *cobra.Command, _ []string) {
		pfee, ctx, done := session(cmd.Context())
		defer done()

		a := site.NewAddEquipmentToSite(pfee.Provider, pfee.Stores.Sites, pfee.Logger)
		renderPayload(mustSucceed(pfee.Logger, a.Add(ctx, siteOpts.id, siteOpts.equipmentIDs)))

		pfee.Logger.WithField("id", siteOpts.id).WithField("equipments", siteOpts.equipmentIDs).Info("equipment added")
	},
}

var cmdSiteRemoveEquipment = &cobra.Command{
	Use:   "remove-equipment",
	Short: "Detach charging stations from a site",
	Run: func(cmd *cobra.Command, _ []string) {
		pfee, ctx, done := session(cmd.Context())
		defer done()

		r := site.NewRemoveEquipmentFromSite(pfee.Provider, pfee.Stores.Sites, pfee.Logger)
		renderPayload(mustSucceed(pfee.Logger, r.Remove(ctx, siteOpts.id, siteOpts.equipmentIDs)))

		pfee.Logger.WithField("id", siteOpts.id).WithField("equipments", siteOpts.equipmentIDs).Info("equipment removed")
	},
}

// siteBody returns the site body from the flags, geocoding its address when requested.
func siteBody(ctx context.Context, pfee *app.App) model.SiteCreate {
	body := siteOpts.body
	if !siteOpts.geocode {
		return body
	}

	geocoder, err := pfee.Geocoder()
	if err != nil {
		pfee.Logger.Fatal(err)
	}

	coordinates := geocoder.Geocode(ctx, body.Address, body.City, body.PostalCode, body.Country)
	if coordinates == nil {
		pfee.Logger.Fatal(geocoder.ErrMessage())
	}

	body.SetCoordinates(coordinates)

	return body
}

func init() {
	cmdSiteList.Flags().BoolVar(&siteOpts.all, "all", false, "list every site instead of a single page")
	cmdSiteList.Flags().BoolVar(&siteOpts.names, "names", false, "list the site names only")
	cmdSiteList.Flags().IntVar(&siteOpts.page, "page", 0, "page number, starting at 0")
	cmdSiteList.Flags().IntVar(&siteOpts.size, "size", model.DefaultPageSize, "page size")

	for _, c := range []*cobra.Command{cmdSiteList, cmdSiteCreate, cmdSiteUpdate} {
		c.Flags().StringVar(&siteOpts.body.Name, "name", "", "site name")
		c.Flags().StringVar(&siteOpts.body.Address, "address", "", "street address")
		c.Flags().StringVar(&siteOpts.body.City, "city", "", "city")
		c.Flags().StringVar(&siteOpts.body.PostalCode, "postal-code", "", "postal code")
		c.Flags().StringVar(&siteOpts.body.Country, "country", "", "country")
	}

	for _, c := range []*cobra.Command{cmdSiteCreate, cmdSiteUpdate} {
		c.Flags().Float64Var(&siteOpts.body.Latitude, "latitude", 0, "site latitude")
		c.Flags().Float64Var(&siteOpts.body.Longitude, "longitude", 0, "site longitude")
		c.Flags().BoolVar(&siteOpts.geocode, "geocode", false, "set the coordinates from the geocoded address")
	}

	if err := cmdSiteCreate.MarkFlagRequired("name"); err != nil {
		panic(err)
	}

	for _, c := range []*cobra.Command{cmdSiteUpdate, cmdSiteDelete, cmdSiteAddEquipment, cmdSiteRemoveEquipment} {
		c.Flags().Int64Var(&siteOpts.id, "id", 0, "site identifier")

		if err := c.MarkFlagRequired("id"); err != nil {
			panic(err)
		}
	}

	for _, c := range []*cobra.Command{cmdSiteAddEquipment, cmdSiteRemoveEquipment} {
		c.Flags().Int64SliceVar(&siteOpts.equipmentIDs, "equipment", nil, "charging station identifiers, comma separated")

		if err := c.MarkFlagRequired("equipment"); err != nil {
			panic(err)
		}
	}

	cmdSite.AddCommand(cmdSiteList, cmdSiteCreate, cmdSiteUpdate, cmdSiteDelete, cmdSiteAddEquipment, cmdSiteRemoveEquipment)
	rootCmd.AddCommand(cmdSite)
}
