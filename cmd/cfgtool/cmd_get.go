package main

import (
	"fmt"
	"strconv"

	"github.com/creachadair/cfgtree"
	"github.com/creachadair/cfgtree/cursor"
	"github.com/spf13/cobra"
)

func newGetCmd() *cobra.Command {
	var getRaw bool

	cmd := &cobra.Command{
		Use:   "get file [path...]",
		Short: "Print the value at a path in a configuration file",
		Long: `Print the value at a path in a configuration file.

Each path element selects an object key, or a list or object position if
it is an integer. Negative positions count backward from the end, so -1
selects the last element; put "--" before the path so that a negative
position is not taken for a flag. With no path, the whole configuration is
printed.

Use --raw to print a string value without its quotation marks.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obj, err := loadConfig(cmd, args[0], nil)
			if err != nil {
				return err
			}
			defer obj.Free()

			path := parsePath(args[1:])
			c := cursor.New(obj).Down(path...)
			if err := c.Err(); err != nil {
				return fmt.Errorf("path %v: %w", args[1:], err)
			}
			log.Debugf("path %v selected a %v", args[1:], c.Value().Kind())

			if s, ok := c.Value().(cfgtree.String); ok && getRaw {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), string(s))
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), c.Value().String())
			return err
		},
	}

	cmd.Flags().BoolVar(&getRaw, "raw", false, "print strings without quotation marks")

	return cmd
}

// parsePath converts command-line path arguments into cursor path elements.
// Arguments that parse as integers become positions; all others are keys.
func parsePath(args []string) []any {
	path := make([]any, len(args))
	for i, arg := range args {
		if n, err := strconv.Atoi(arg); err == nil {
			path[i] = n
		} else {
			path[i] = arg
		}
	}
	return path
}
