package cli

import (
	"fmt"

	"ItemList/internal/view"

	"github.com/spf13/cobra"
)

func NewShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <index>",
		Short: "Show the detail of the item at index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			indexes, err := parseIndexes(args)
			if err != nil {
				return err
			}
			return withListView(cmd.Context(), opts, func(lv *view.ListView) error {
				if err := lv.Select(indexes[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), lv.Screen().Detail.Text)
				return nil
			})
		},
	}
}
