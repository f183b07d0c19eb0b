package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"ItemList/internal/view"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ValidFormats defines the allowed list output formats.
var ValidFormats = []string{"table", "json", "yaml"}

type listEntry struct {
	Index     int       `json:"index" yaml:"index"`
	ID        string    `json:"id" yaml:"id"`
	Label     string    `json:"label" yaml:"label"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

func NewListCommand(opts *RootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(format) {
				return errors.Errorf("invalid format %q: must be one of %v", format, ValidFormats)
			}
			return withListView(cmd.Context(), opts, func(lv *view.ListView) error {
				return writeList(cmd.OutOrStdout(), lv.Screen(), format, opts.Now())
			})
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "table", "output format (table|json|yaml)")
	return cmd
}

func writeList(w io.Writer, screen view.Screen, format string, now time.Time) error {
	entries := make([]listEntry, 0, len(screen.Rows))
	for i, row := range screen.Rows {
		entries = append(entries, listEntry{Index: i, ID: row.ID, Label: row.Label, Timestamp: row.Timestamp})
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No items")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTIMESTAMP\tAGE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", e.Index, e.Label, humanize.RelTime(e.Timestamp, now, "ago", "from now"))
	}
	return tw.Flush()
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
