package main

import (
	"fmt"

	"github.com/creachadair/cfgtree"
	"github.com/creachadair/cfgtree/cfgjson"
	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	var importOutput string

	cmd := &cobra.Command{
		Use:   "import [file.json]",
		Short: "Convert a JSON file to a configuration file",
		Long: `Convert a JSON or HuJSON file to canonical configuration text.

The JSON root must be an object, and arrays must be homogeneous. Values with
no configuration equivalent (null, true, false, negative numbers, and
strings containing quotation marks) are rejected.

The result is written to stdout, or to the file named by -o.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filename string
			if len(args) != 0 {
				filename = args[0]
			}
			data, err := readInput(cmd, filename)
			if err != nil {
				return err
			}
			obj, err := cfgjson.Import(data)
			if err != nil {
				return fmt.Errorf("%s: %w", displayName(filename), err)
			}
			defer obj.Free()

			if importOutput == "" {
				return writeConfig(cmd.OutOrStdout(), obj, 6)
			}
			log.Infof("writing %d entries to %q", obj.Len(), importOutput)
			return cfgtree.SaveFile(importOutput, obj)
		},
	}

	cmd.Flags().StringVarP(&importOutput, "output", "o", "", "write the result to this file")

	return cmd
}
