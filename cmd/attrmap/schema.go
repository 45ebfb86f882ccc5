package main

import (
	"github.com/spf13/cobra"

	"attrmap/internal/attrmap"
)

func newSchemaCmd(a *app) *cobra.Command {
	var (
		flags mapFlags
		mode  string
	)

	cmd := &cobra.Command{
		Use:   "schema TYPE",
		Short: "Print the schema of a map",
		Long: `Print the fields and relations a map reads or writes, with nested maps
expanded once per path.

Examples:
  attrmap schema Post
  attrmap schema Post --map admin --mode write --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schemaMode, err := attrmap.ParseSchemaMode(mode)
			if err != nil {
				return err
			}

			set, _, err := a.load()
			if err != nil {
				return err
			}

			m, err := set.Map(args[0], flags.mapName)
			if err != nil {
				return err
			}

			schema, err := m.Schema(schemaMode, nil)
			if err != nil {
				return err
			}

			return flags.write(a.stdout, schema)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&mode, "mode", "read", "schema mode (read, write, both)")

	return cmd
}
