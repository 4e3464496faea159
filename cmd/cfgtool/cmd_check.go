package main

import (
	"errors"
	"fmt"

	"github.com/creachadair/cfgtree"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var checkStrict bool

	cmd := &cobra.Command{
		Use:   "check file...",
		Short: "Check configuration files for errors",
		Long: `Check that each named configuration file parses and can be saved.

Duplicate keys are reported as warnings. With --strict, duplicate keys and
numbers with extra decimal points are reported as errors.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var nfail int
			for _, name := range args {
				dups, err := checkFile(cmd, name, checkStrict)
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %v\n", color.RedString("FAIL"), err)
					nfail++
					continue
				}
				for _, key := range dups {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s: duplicate key %q\n",
						color.YellowString("warn"), displayName(name), key)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("ok"), displayName(name))
			}
			if nfail != 0 {
				return fmt.Errorf("%d of %d files failed", nfail, len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkStrict, "strict", false, "reject duplicate keys and malformed numbers")

	return cmd
}

// checkFile loads and re-encodes the named file, and reports any duplicate
// keys it contains.
func checkFile(cmd *cobra.Command, name string, strict bool) ([]string, error) {
	obj, err := loadConfig(cmd, name, func(dec *cfgtree.Decoder) {
		dec.DisallowDuplicateKeys(strict)
		dec.StrictNumbers(strict)
	})
	if err != nil {
		var cerr *cfgtree.Error
		if errors.As(err, &cerr) {
			log.Debugf("%s: %v error at offset %d", displayName(name), cerr.Kind, cerr.Offset)
		}
		return nil, err
	}
	defer obj.Free()

	dups := cfgtree.DuplicateKeys(obj)
	if len(dups) != 0 {
		log.Infof("%s: %d duplicate keys", displayName(name), len(dups))
	}
	if _, err := canonical(obj); err != nil {
		return nil, fmt.Errorf("%s: %w", displayName(name), err)
	}
	return dups, nil
}
