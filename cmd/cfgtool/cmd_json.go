package main

import (
	"fmt"

	"github.com/creachadair/cfgtree/cfgjson"
	"github.com/spf13/cobra"
)

func newJSONCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "json [file]",
		Short: "Convert a configuration file to JSON",
		Long: `Convert a configuration file to formatted JSON on stdout.

If no file is given, or the file is "-", the configuration is read from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filename string
			if len(args) != 0 {
				filename = args[0]
			}
			obj, err := loadConfig(cmd, filename, nil)
			if err != nil {
				return err
			}
			defer obj.Free()

			data, err := cfgjson.Export(obj)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	return cmd
}
