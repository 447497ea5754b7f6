// Package cli implements the brep command line.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/brep/pkg/config"
	"github.com/chazu/brep/pkg/engine"
	"github.com/chazu/brep/pkg/topo"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool

	// Config is resolved from ConfigPath before any subcommand runs.
	Config config.Config
}

// NewRootCommand creates the root command for the brep CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Config: config.Default()}

	cmd := &cobra.Command{
		Use:   "brep",
		Short: "brep - boundary representation modeller",
		Long: `Build solid models from Lisp scripts and write them as mesher input.

Scripts create points, curves, faces and volumes, sweep and weld them, and
emit the entities to write. Output is a Gmsh .geo script or a .dmg
discrete model.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "configuration file (YAML)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging on stderr")

	cmd.AddCommand(NewBuildCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))

	return cmd
}

// setup loads the configuration and installs the logger.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	if o.ConfigPath != "" {
		cfg, err := config.Load(o.ConfigPath)
		if err != nil {
			return err
		}
		o.Config = cfg
	}
	level := o.Config.Level()
	if o.Verbose {
		level = slog.LevelDebug
	}
	topo.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	return nil
}

// evaluate runs the script at path with the configured engine. Script
// errors are printed to the command's error stream.
func (o *RootOptions) evaluate(cmd *cobra.Command, path string) (*engine.Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	eng := engine.NewEngine(
		engine.WithTimeout(o.Config.EvalTimeout),
		engine.WithMeshSize(o.Config.DefaultMeshSize),
	)
	res, evalErrs, err := eng.Evaluate(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", path, e.Error())
		}
		return nil, fmt.Errorf("%s: %d error(s)", path, len(evalErrs))
	}
	return res, nil
}
