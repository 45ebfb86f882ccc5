package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"attrmap/internal/analyze"
	"attrmap/internal/attrmap"
	"attrmap/internal/definition"
	"attrmap/internal/encode"
	"attrmap/internal/logging"
	"attrmap/internal/record"
)

// app holds the global flags and the resources built from them.
type app struct {
	stdout io.Writer
	stderr io.Writer

	cfgFile   string
	pkg       string
	logLevel  string
	logFormat string

	log zerolog.Logger
}

// newRootCmd builds the command tree writing to the given streams.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, log: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:   "attrmap",
		Short: "Declarative attribute maps for records",
		Long: `attrmap reads attribute map definitions and uses them to render
records and to translate write input.

Record models come from the definition file, or from annotated Go structs
with --package.

Examples:
  attrmap check -c examples/blog/attrmap.yaml
  attrmap schema Post --map admin
  attrmap project Post --input posts.json --include comments.author
  attrmap translate Post --input payload.json --assign`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.New(a.stderr, a.logLevel, a.logFormat)
			if err != nil {
				return err
			}

			a.log = log

			return nil
		},
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "attrmap.yaml", "definition file path")
	flags.StringVarP(&a.pkg, "package", "p", "", "Go package to derive record models from (overrides models in the definition file)")
	flags.StringVar(&a.logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", logging.FormatConsole, "log format (console, json)")

	rootCmd.AddCommand(
		newCheckCmd(a),
		newSchemaCmd(a),
		newProjectCmd(a),
		newTranslateCmd(a),
	)

	return rootCmd
}

// load reads the definition file, builds the record models and resolves
// every map. Warnings are logged; errors fail the load.
func (a *app) load() (*attrmap.Set, *record.Models, error) {
	f, err := definition.LoadFile(a.cfgFile)
	if err != nil {
		return nil, nil, err
	}

	models, err := a.models(f)
	if err != nil {
		return nil, nil, err
	}

	set := attrmap.NewSet(models, attrmap.WithLogger(a.log))

	diags := definition.Load(f, set, builtinFuncs())
	for _, w := range diags.Warnings {
		a.log.Warn().
			Str("code", w.Code).
			Str("subject", w.Subject).
			Str("path", w.Path).
			Msg(w.Message)
	}

	if err := diags.Error(); err != nil {
		return nil, nil, fmt.Errorf("invalid definition %s: %w", a.cfgFile, err)
	}

	set.Seal()

	a.log.Debug().Int("types", len(set.Registries())).Msg("definition loaded")

	return set, models, nil
}

func (a *app) models(f *definition.File) (*record.Models, error) {
	if a.pkg == "" {
		return f.Models()
	}

	graph, err := analyze.NewAnalyzer().LoadPackages(a.pkg)
	if err != nil {
		return nil, err
	}

	return graph.Models()
}

// mapFlags are the flags shared by commands that work on a single map.
type mapFlags struct {
	mapName string
	format  string
	compact bool
}

func (f *mapFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mapName, "map", "m", attrmap.DefaultMapName, "map name")
	cmd.Flags().StringVarP(&f.format, "format", "f", string(encode.FormatJSON), "output format (json, yaml)")
	cmd.Flags().BoolVar(&f.compact, "compact", false, "compact JSON output")
}

func (f *mapFlags) write(w io.Writer, v any) error {
	format, err := encode.ParseFormat(f.format)
	if err != nil {
		return err
	}

	return encode.Write(w, format, v, f.compact)
}

// readInput decodes the --input file, or stdin for "-".
func (a *app) readInput(path string) (any, error) {
	if path == "-" {
		return encode.Read(os.Stdin, encode.FormatJSON)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return encode.Read(file, encode.FormatOf(path))
}

// parseIncludePaths turns dotted paths such as "comments.author" into a
// nested include.
func parseIncludePaths(paths []string) attrmap.Include {
	out := attrmap.Include{}

	for _, p := range paths {
		level := out

		for _, name := range strings.Split(p, ".") {
			name = strings.TrimSpace(name)
			if name == "" {
				break
			}

			next, ok := level[name]
			if !ok || next == nil {
				next = attrmap.Include{}
				level[name] = next
			}

			level = next
		}
	}

	if len(out) == 0 {
		return nil
	}

	return out
}
