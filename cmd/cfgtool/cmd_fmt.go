package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/creachadair/cfgtree"
	"github.com/spf13/cobra"
)

func newFmtCmd() *cobra.Command {
	var (
		fmtOverwrite bool
		fmtPrec      int
	)

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Rewrite a configuration file in canonical form",
		Long: `Rewrite a configuration file in canonical form on stdout.

The canonical form has no whitespace or comments, and numbers are written
with a fixed number of fractional digits. If no file is given, or the file
is "-", the configuration is read from stdin.

Use -w to overwrite the file in place (requires a file argument).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var filename string
			if len(args) != 0 {
				filename = args[0]
			}
			if fmtOverwrite && (filename == "" || filename == "-") {
				return fmt.Errorf("-w requires a file argument")
			}

			obj, err := loadConfig(cmd, filename, nil)
			if err != nil {
				return err
			}
			defer obj.Free()

			if !fmtOverwrite {
				return writeConfig(cmd.OutOrStdout(), obj, fmtPrec)
			}
			var buf bytes.Buffer
			if err := writeConfig(&buf, obj, fmtPrec); err != nil {
				return err
			}
			log.Infof("rewriting %q (%d bytes)", filename, buf.Len())
			return os.WriteFile(filename, buf.Bytes(), 0644)
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")
	cmd.Flags().IntVarP(&fmtPrec, "precision", "p", 6, "fractional digits for numbers")

	return cmd
}

// canonical returns the canonical text of obj with default settings.
func canonical(obj *cfgtree.Object) (string, error) {
	var buf cfgtree.Buffer
	if err := cfgtree.Save(&buf, obj); err != nil {
		return "", err
	}
	return buf.String(), nil
}
