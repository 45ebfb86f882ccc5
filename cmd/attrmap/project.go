package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"attrmap/internal/attrmap"
)

func newProjectCmd(a *app) *cobra.Command {
	var (
		flags   mapFlags
		input   string
		include []string
		only    []string
		except  []string
	)

	cmd := &cobra.Command{
		Use:   "project TYPE",
		Short: "Render records through a map",
		Long: `Load records of TYPE from the input file and render them through a map.
The input is a record or a list of records; "@type" selects a subtype.

Examples:
  attrmap project Post --input examples/blog/posts.json
  attrmap project Post --input posts.json --include comments.author,media
  attrmap project Post --input posts.json --only title --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, models, err := a.load()
			if err != nil {
				return err
			}

			m, err := set.Map(args[0], flags.mapName)
			if err != nil {
				return err
			}

			data, err := a.readInput(input)
			if err != nil {
				return err
			}

			opts := attrmap.ProjectOptions{
				Include: parseIncludePaths(include),
				Only:    only,
				Except:  except,
			}

			switch v := data.(type) {
			case map[string]any:
				rec, err := models.Load(args[0], v)
				if err != nil {
					return err
				}

				h, err := m.Project(rec, opts)
				if err != nil {
					return err
				}

				return flags.write(a.stdout, h)
			case []any:
				recs, err := models.LoadAll(args[0], v)
				if err != nil {
					return err
				}

				hashes, err := m.ProjectAll(toRecords(recs), opts)
				if err != nil {
					return err
				}

				a.log.Debug().Int("records", len(hashes)).Msg("projected")

				return flags.write(a.stdout, hashes)
			default:
				return fmt.Errorf("input must be a record or a list of records, got %T", data)
			}
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&input, "input", "i", "-", "records file (json or yaml), - for stdin")
	cmd.Flags().StringSliceVar(&include, "include", nil, "optional names or groups to include, dotted for nested levels")
	cmd.Flags().StringSliceVar(&only, "only", nil, "top-level names to keep")
	cmd.Flags().StringSliceVar(&except, "except", nil, "top-level names to drop")

	return cmd
}
