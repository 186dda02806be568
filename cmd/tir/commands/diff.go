package commands

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/tensorir/go-tir/diff"
	"github.com/tensorir/go-tir/parse"
	"github.com/tensorir/go-tir/report"
)

// ErrTreesDiffer signals a successful comparison that found a
// divergence; the CLI maps it to exit status 1 without a message.
var ErrTreesDiffer = errors.New("trees differ")

func diffCmd() *cobra.Command {
	var (
		alpha    bool
		floatTol float64
		sugar    bool
		context  int
		noColor  bool
	)
	cmd := &cobra.Command{
		Use:   "diff <lhs> <rhs>",
		Short: "Report the first structural divergence between two tree documents",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lhs, err := parse.File(args[0])
			if err != nil {
				return err
			}
			rhs, err := parse.File(args[1])
			if err != nil {
				return err
			}

			opts := []diff.Option{diff.AlphaEquivalent(alpha)}
			if floatTol > 0 {
				opts = append(opts, diff.FloatTolerance(floatTol))
			}
			m, err := diff.Compare(lhs, rhs, opts...)
			if err != nil {
				return err
			}

			color := !noColor && isatty.IsTerminal(os.Stdout.Fd())
			if err := report.Write(cmd.OutOrStdout(), lhs, rhs, m,
				report.WithColor(color),
				report.Sugar(sugar),
				report.Context(context)); err != nil {
				return err
			}
			if m != nil {
				return ErrTreesDiffer
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&alpha, "alpha", false, "compare bound variables by binding position")
	cmd.Flags().Float64Var(&floatTol, "float-tol", 0, "absolute tolerance for float equality")
	cmd.Flags().BoolVar(&sugar, "sugar", false, "fold axis bindings into remap lines")
	cmd.Flags().IntVar(&context, "context", 2, "lines of context around the divergence")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable ANSI colors")
	return cmd
}
