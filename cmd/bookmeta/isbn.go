package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var isbnCmd = &cobra.Command{
	Use:   "isbn <isbn>",
	Short: "Resolve an ISBN to a catalog identifier",
	Long: `Isbn searches the catalog for an ISBN and prints the identifier of the
first match. Lookup failures of any kind are reported as not found.`,
	Args: cobra.ExactArgs(1),
	RunE: runISBN,
}

func init() {
	isbnCmd.Flags().Bool("details", false, "also fetch and print the full record")

	rootCmd.AddCommand(isbnCmd)
}

func runISBN(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.finish(cmd)

	id, ok := a.provider.IDFromISBN(cmd.Context(), args[0])
	if !ok {
		return fmt.Errorf("no catalog entry found for ISBN %s", args[0])
	}

	if withDetails, _ := cmd.Flags().GetBool("details"); withDetails {
		rec, err := a.provider.MetadataDetails(cmd.Context(), id)
		if err != nil {
			return err
		}
		return render(cmd, rec)
	}
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}
