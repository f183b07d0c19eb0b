package cli

import (
	"fmt"

	"ItemList/internal/view"

	"github.com/spf13/cobra"
)

func NewAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: "Add an item stamped with the current time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withListView(cmd.Context(), opts, func(lv *view.ListView) error {
				item, err := lv.Add(cmd.Context())
				if err != nil {
					return err
				}
				screen := lv.Screen()
				for _, row := range screen.Rows {
					if row.ID == item.ID {
						fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", row.Label)
						break
					}
				}
				return nil
			})
		},
	}
}
