package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"attrmap/internal/attrmap"
	"attrmap/internal/record"
)

func newTranslateCmd(a *app) *cobra.Command {
	var (
		flags  mapFlags
		input  string
		assign bool
	)

	cmd := &cobra.Command{
		Use:   "translate TYPE",
		Short: "Translate write input to internal attribute names",
		Long: `Translate external input through a map: keys are renamed to internal
names, writable relations become "<name>_attributes", and read-only or
unknown keys are dropped. Dropped keys are logged at debug level.

With --assign the translated input is applied to a new record of TYPE,
which is then rendered back through the same map.

Examples:
  attrmap translate Post --input payload.json
  attrmap translate Post --map admin --input payload.yaml --assign`,
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

			opts := attrmap.TranslateOptions{
				OnDrop: func(path string, reason attrmap.DropReason) {
					a.log.Debug().Str("path", path).Str("reason", string(reason)).Msg("dropped input key")
				},
			}

			if !assign {
				out, err := m.TranslateForWrite(data, opts)
				if err != nil {
					return err
				}

				return flags.write(a.stdout, out)
			}

			attrs, ok := data.(map[string]any)
			if !ok {
				return fmt.Errorf("--assign needs a single record as input, got %T", data)
			}

			model, ok := models.Model(args[0])
			if !ok {
				return fmt.Errorf("%w %q", record.ErrUnknownType, args[0])
			}

			rec := model.New()
			if err := m.Assign(rec, attrs, opts); err != nil {
				return err
			}

			h, err := m.Project(rec, attrmap.ProjectOptions{})
			if err != nil {
				return err
			}

			return flags.write(a.stdout, h)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&input, "input", "i", "-", "input file (json or yaml), - for stdin")
	cmd.Flags().BoolVar(&assign, "assign", false, "apply the input to a new record and render it")

	return cmd
}
