package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"attrmap/internal/diagnostic"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate a definition file and resolve every map",
		Long: `Validate the definition file against the record models, declare every
map and resolve it.

Checks:
  - YAML syntax and option names
  - fields and relations exist on their types
  - merges between maps resolve without cycles

Examples:
  attrmap check
  attrmap check --config examples/blog/attrmap.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, _, err := a.load()
			if err != nil {
				return err
			}

			for _, reg := range set.Registries() {
				for _, m := range reg.Maps() {
					fmt.Fprintf(a.stdout, "  %-24s fields=%d relations=%d\n",
						diagnostic.Subject(m.TypeName(), m.Name()), len(m.Fields()), len(m.Relations()))
				}
			}

			fmt.Fprintf(a.stdout, "\n%s is valid.\n", a.cfgFile)

			return nil
		},
	}
}
