package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newNameCmd(opts *RootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "name <smiles>",
		Short: "Name a single molecule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.newService()
			if err != nil {
				return err
			}

			result, err := svc.Name(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			fmt.Fprintln(out, result.Name)
			if result.Degraded() {
				fmt.Fprintf(out, "confidence: %.2f\n", result.Confidence)
				for _, c := range result.Conflicts {
					fmt.Fprintf(out, "conflict: [%s] %s\n", c.Type, c.Message)
				}
			}
			if opts.Verbose {
				fmt.Fprint(out, result.AuditSummary())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the full result as JSON")
	return cmd
}
