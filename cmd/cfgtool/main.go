// Program cfgtool reads, checks, and converts configuration files.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/creachadair/cfgtree"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("cfgtool")

func main() {
	color.NoColor = !isatty.IsTerminal(os.Stderr.Fd())

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose int

	rootCmd := &cobra.Command{
		Use:   "cfgtool",
		Short: "Read, check, and convert configuration files",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(verbose, nil)
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase log verbosity (repeatable)")

	rootCmd.AddCommand(newFmtCmd())
	rootCmd.AddCommand(newGetCmd())
	rootCmd.AddCommand(newJSONCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newCheckCmd())
	return rootCmd
}

// readInput returns the contents of the named file, or of stdin if name is
// empty or "-".
func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "" || name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	log.Debugf("read %d bytes from %q", len(data), name)
	return data, nil
}

// loadConfig parses the configuration in the named file (or stdin) with dec
// settings applied by setup, if it is not nil.
func loadConfig(cmd *cobra.Command, name string, setup func(*cfgtree.Decoder)) (*cfgtree.Object, error) {
	data, err := readInput(cmd, name)
	if err != nil {
		return nil, err
	}
	dec := cfgtree.NewDecoder(cfgtree.NewBuffer(string(data)))
	if setup != nil {
		setup(dec)
	}
	obj, err := dec.Decode()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", displayName(name), err)
	}
	return obj, nil
}

// writeConfig writes the canonical text of obj to w, followed by a newline.
func writeConfig(w io.Writer, obj *cfgtree.Object, prec int) error {
	enc := cfgtree.NewEncoder(cfgtree.NewWriter(w))
	enc.Precision(prec)
	if err := enc.Encode(obj); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

func displayName(name string) string {
	if name == "" || name == "-" {
		return "<stdin>"
	}
	return name
}
