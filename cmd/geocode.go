package cmd

import (
	"github.com/Felixhuangsiling/front-pfee/internal/model"
	"github.com/spf13/cobra"
)

var (
	geocodeOpts = &model.SiteCreate{}
)

var cmdGeocode = &cobra.Command{
	Use:   "geocode",
	Short: "Print the coordinates of an address",
	Run: func(cmd *cobra.Command, _ []string) {
		pfee, ctx, done := session(cmd.Context())
		defer done()

		geocoder, err := pfee.Geocoder()
		if err != nil {
			pfee.Logger.Fatal(err)
		}

		coordinates := geocoder.Geocode(ctx, geocodeOpts.Address, geocodeOpts.City, geocodeOpts.PostalCode, geocodeOpts.Country)
		if coordinates == nil {
			pfee.Logger.Fatal(geocoder.ErrMessage())
		}

		render(coordinates)
	},
}

func init() {
	cmdGeocode.Flags().StringVar(&geocodeOpts.Address, "address", "", "street address")
	cmdGeocode.Flags().StringVar(&geocodeOpts.City, "city", "", "city")
	cmdGeocode.Flags().StringVar(&geocodeOpts.PostalCode, "postal-code", "", "postal code")
	cmdGeocode.Flags().StringVar(&geocodeOpts.Country, "country", "", "country")

	if err := cmdGeocode.MarkFlagRequired("address"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(cmdGeocode)
}
