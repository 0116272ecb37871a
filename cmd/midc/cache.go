package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCacheCmd groups the instantiation cache's maintenance subcommands:
// inspect (report what's settled) and clear (reset it).
func newCacheCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or reset the persistent instantiation cache",
	}
	cmd.AddCommand(newCacheInspectCmd(flags))
	cmd.AddCommand(newCacheClearCmd(flags))
	return cmd
}

func newCacheInspectCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "List every cached template instantiation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := resolveConfig(flags)
			store, err := openCache(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			rows, err := store.List()
			if err != nil {
				return fmt.Errorf("listing cached instantiations: %w", err)
			}
			if len(rows) == 0 {
				fmt.Println("cache is empty")
				return nil
			}
			for _, r := range rows {
				fmt.Printf("%s  %s  args=%s  %s\n", r.ID, r.TemplateKey, r.ArgsDigest, r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
			}
			fmt.Printf("%d instantiation(s)\n", len(rows))
			return nil
		},
	}
}

func newCacheClearCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every cached instantiation record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := resolveConfig(flags)
			store, err := openCache(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := store.Count()
			if err != nil {
				return fmt.Errorf("counting cached instantiations: %w", err)
			}
			if err := store.Clear(); err != nil {
				return fmt.Errorf("clearing instantiation cache: %w", err)
			}
			fmt.Printf("cleared %d instantiation(s)\n", count)
			return nil
		},
	}
}
