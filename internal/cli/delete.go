package cli

import (
	"fmt"

	"ItemList/internal/view"

	"github.com/spf13/cobra"
)

func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <index>...",
		Short: "Delete the items at the given list positions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			indexes, err := parseIndexes(args)
			if err != nil {
				return err
			}
			return withListView(cmd.Context(), opts, func(lv *view.ListView) error {
				deleted, err := lv.Delete(cmd.Context(), indexes...)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d item(s)\n", deleted)
				return nil
			})
		},
	}
}
