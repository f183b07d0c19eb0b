package cli

import (
	"context"
	"strconv"
	"time"

	"ItemList/internal/storage"
	"ItemList/internal/view"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DBPath   string
	Timezone string

	// Now is the clock used for new items and relative ages. Defaults to time.Now.
	Now func() time.Time
}

// NewRootCommand creates the root command for the items CLI. defaults
// supplies flag defaults, usually taken from the environment config.
func NewRootCommand(defaults RootOptions) *cobra.Command {
	opts := &defaults
	if opts.Now == nil {
		opts.Now = time.Now
	}

	cmd := &cobra.Command{
		Use:          "items",
		Short:        "Manage the timestamped item list",
		Long:         "List, add, show and delete timestamped items in the local store.",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", opts.DBPath, "path to the SQLite database")
	cmd.PersistentFlags().StringVar(&opts.Timezone, "tz", opts.Timezone, "timezone used for labels")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))

	return cmd
}

// withListView opens the store, starts a list view over it and runs fn.
func withListView(ctx context.Context, opts *RootOptions, fn func(*view.ListView) error) error {
	if opts.DBPath == "" {
		return errors.New("database path is required (--db)")
	}

	loc := time.Local
	if opts.Timezone != "" {
		var err error
		loc, err = time.LoadLocation(opts.Timezone)
		if err != nil {
			return errors.Wrapf(err, "invalid timezone %q", opts.Timezone)
		}
	}

	store, err := storage.Open(opts.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	lv := view.New(store, view.WithLocation(loc), view.WithClock(opts.Now))
	if err := lv.Start(ctx); err != nil {
		return err
	}
	defer lv.Close()

	return fn(lv)
}

func parseIndexes(args []string) ([]int, error) {
	indexes := make([]int, 0, len(args))
	for _, arg := range args {
		i, err := strconv.Atoi(arg)
		if err != nil {
			return nil, errors.Errorf("invalid index %q", arg)
		}
		indexes = append(indexes, i)
	}
	return indexes, nil
}
