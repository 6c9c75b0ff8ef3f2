package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the catalog for books",
	Long: `Search queries the catalog and prints one page of results with the
total item count and the next page number when more results remain.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("page", 1, "result page, starting at 1")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	page, _ := cmd.Flags().GetInt("page")

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.finish(cmd)

	res, err := a.provider.MetadataSearch(cmd.Context(), page, strings.Join(args, " "))
	if err != nil {
		return err
	}
	return render(cmd, res)
}
