package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"waldo/internal/diag"
	"waldo/internal/diagfmt"
	"waldo/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.wld",
	Short: "Parse a composition document and print its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "tree", "output format (tree|pretty|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "tree", "pretty", "json":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	result, err := driver.Parse(args[0])
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	if result.Err != nil {
		// разбор прерывается на первой ошибке, дерево неполное
		bag := diag.NewBag(1)
		if e, ok := asDiagError(result.Err); ok {
			bag.Add(e.Diagnostic())
			diagfmt.Pretty(os.Stderr, bag, result.FileSet, diagfmt.PrettyOpts{
				Color:   useColor(cmd, os.Stderr),
				Context: 2,
			})
		} else {
			fmt.Fprintln(os.Stderr, result.Err)
		}
		return errCheckFailed
	}

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		return diagfmt.FormatASTPretty(out, result.Builder, result.FileID, result.FileSet)
	case "json":
		return diagfmt.FormatASTJSON(out, result.Builder, result.FileID)
	default:
		return diagfmt.FormatASTTree(out, result.Builder, result.FileID, result.FileSet)
	}
}

func asDiagError(err error) (*diag.Error, bool) {
	var e *diag.Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
