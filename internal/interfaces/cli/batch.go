package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newBatchCmd(opts *RootOptions) *cobra.Command {
	var (
		inputPath string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "batch [smiles...]",
		Short: "Name many molecules, from arguments or a file of one SMILES per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := args
			if inputPath != "" {
				fromFile, err := readInputs(inputPath, cmd.InOrStdin())
				if err != nil {
					return err
				}
				inputs = append(inputs, fromFile...)
			}
			if len(inputs) == 0 {
				return fmt.Errorf("no inputs: pass SMILES arguments or --input")
			}

			svc, err := opts.newService()
			if err != nil {
				return err
			}

			items, err := svc.NameBatch(cmd.Context(), inputs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			}
			for _, item := range items {
				if item.Error != "" {
					fmt.Fprintf(out, "%s\tERROR\t%s\n", item.Input, item.Error)
					continue
				}
				fmt.Fprintf(out, "%s\t%s\n", item.Input, item.Result.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "file with one SMILES per line, '-' for stdin")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the full results as JSON")
	return cmd
}

// readInputs loads one SMILES per line, skipping blanks and '#' comments.
func readInputs(path string, stdin io.Reader) ([]string, error) {
	var r io.Reader
	if path == "-" {
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var inputs []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		inputs = append(inputs, line)
	}
	return inputs, scanner.Err()
}
