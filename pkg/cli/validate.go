package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/brep/pkg/engine"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <script>",
		Short: "Evaluate a script and check the model it builds",
		Long: `Evaluate a script and run the structural and geometric checks on the
resulting model without writing any output. Structural errors fail the
command; geometric findings are reported as warnings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := rootOpts.evaluate(cmd, args[0])
			if err != nil {
				return err
			}
			printWarnings(cmd, args[0], res.Warnings)
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: model valid (%d entities, %d warnings)\n",
				args[0], res.Model.Len(), len(res.Warnings))
			return nil
		},
	}
}

func printWarnings(cmd *cobra.Command, script string, warnings []engine.EvalWarning) {
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: warning: %s\n", script, w)
	}
}
