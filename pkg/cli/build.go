package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazu/brep/pkg/export"
)

// BuildOptions holds the flags of the build command.
type BuildOptions struct {
	Output   string
	Format   string
	Physical bool
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{}

	cmd := &cobra.Command{
		Use:   "build <script>",
		Short: "Evaluate a script and write the emitted model",
		Long: `Evaluate a script and write the closure of the entities it emits.

The format is taken from --format, else from the extension of --output,
else from the configuration. Without --output the model is written next to
the script. An output of "-" writes to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "output format (geo|dmg)")
	cmd.Flags().BoolVar(&opts.Physical, "physical", false, "append physical groups to .geo output")

	return cmd
}

func runBuild(rootOpts *RootOptions, opts *BuildOptions, script string, cmd *cobra.Command) error {
	format, err := resolveFormat(rootOpts, opts)
	if err != nil {
		return err
	}
	res, err := rootOpts.evaluate(cmd, script)
	if err != nil {
		return err
	}
	if res.Root.IsZero() {
		return fmt.Errorf("%s: script emitted nothing", script)
	}
	printWarnings(cmd, script, res.Warnings)

	geo := export.GeoOptions{Physical: opts.Physical || rootOpts.Config.Physical}
	if opts.Output == "-" {
		return export.Write(cmd.OutOrStdout(), res.Model, res.Root, format, geo)
	}
	out := opts.Output
	if out == "" {
		out = strings.TrimSuffix(script, filepath.Ext(script)) + format.Ext()
	}
	if err := export.WriteFile(out, res.Model, res.Root, format, geo); err != nil {
		return err
	}
	n := len(res.Model.Closure(res.Root, true, true))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, %d entities)\n", out, format, n)
	return nil
}

func resolveFormat(rootOpts *RootOptions, opts *BuildOptions) (export.Format, error) {
	if opts.Format != "" {
		return export.ParseFormat(opts.Format)
	}
	if ext := filepath.Ext(opts.Output); ext != "" {
		if f, err := export.ParseFormat(ext); err == nil {
			return f, nil
		}
	}
	return rootOpts.Config.ExportFormat(), nil
}
