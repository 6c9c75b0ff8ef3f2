package main

import (
	"github.com/spf13/cobra"
)

var detailsCmd = &cobra.Command{
	Use:   "details <id>",
	Short: "Print the metadata record of a catalog entry",
	Long: `Details fetches the detail page of a catalog identifier and prints the
normalized record: title, publish year, creators, genres, description,
cover images, page count, ISBN and source URL. Fields the page lacks are
left out.`,
	Args: cobra.ExactArgs(1),
	RunE: runDetails,
}

func init() {
	rootCmd.AddCommand(detailsCmd)
}

func runDetails(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.finish(cmd)

	rec, err := a.provider.MetadataDetails(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return render(cmd, rec)
}
