package main

import (
	"encoding/json"
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/wms/internal/storage/collection"
)

func newCollectionsCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collections",
		Aliases: []string{"col"},
		Short:   "Inspect and maintain stored collections",
	}
	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newShowCommand(opts))
	cmd.AddCommand(newClearCommand(opts))
	return cmd
}

func newListCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List collections with their record counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := opts.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "COLLECTION\tRECORDS")
			for _, name := range store.Names() {
				_, _ = fmt.Fprintf(w, "%s\t%d\n", name, store.Collection(cmd.Context(), name).Len())
			}
			return w.Flush()
		},
	}
}

func newShowCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print every record of a collection as JSON keyed by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			name := args[0]
			if !slices.Contains(store.Names(), name) {
				return fmt.Errorf("collection %q not found", name)
			}

			records := collection.Records{}
			store.Collection(cmd.Context(), name).Each(func(id string, raw json.RawMessage) bool {
				records[id] = raw
				return true
			})

			out, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return fmt.Errorf("encode %s: %w", name, err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}

func newClearCommand(opts *globalOptions) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "clear [name]",
		Short: "Remove all records of one collection, or of every collection with --all",
		Args: func(_ *cobra.Command, args []string) error {
			switch {
			case all && len(args) > 0:
				return fmt.Errorf("--all does not take a collection name")
			case !all && len(args) != 1:
				return fmt.Errorf("collection name or --all is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			if all {
				if err := store.ClearAll(cmd.Context()); err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "cleared %d collections\n", len(store.Names()))
				return err
			}

			name := args[0]
			if !collection.ValidName(name) {
				return fmt.Errorf("invalid collection name %q", name)
			}
			if err := store.ClearCollection(cmd.Context(), name); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", name)
			return err
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "clear every collection")
	return cmd
}
