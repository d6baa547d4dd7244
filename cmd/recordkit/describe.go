package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/recordkit/recordkit/internal/cli"
	"github.com/recordkit/recordkit/internal/selector"
)

var describeCmd = &cobra.Command{
	Use:   "describe <entity>",
	Short: "Print an entity's resolved field projection",
	Long: `Resolve an entity against the configured catalog and print the field
projection a selector would issue, including required-field union and
field-level security filtering.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cli.LoadConfig(configPath)
		if err != nil {
			return err
		}
		if cfg.Catalog == "" {
			return fmt.Errorf("no entity catalog configured")
		}

		registry, err := cli.LoadCatalog(cfg.Catalog)
		if err != nil {
			return err
		}

		entity := args[0]
		sel, err := selector.New(cmd.Context(), entity, nil, selector.Config{
			Metadata: registry,
		},
			selector.WithObjectSecurity(cfg.ObjectSecurity),
			selector.WithFieldSecurity(cfg.FieldSecurity),
		)
		if err != nil {
			return err
		}
		if err := sel.AddAllFields(); err != nil {
			return err
		}

		clause, err := sel.FieldClause()
		if err != nil {
			return err
		}

		color.Cyan("%s", entity)
		fmt.Printf("  projection: %s\n", clause)
		fmt.Printf("  order by:   %s\n", sel.OrderBy())
		return nil
	},
}
