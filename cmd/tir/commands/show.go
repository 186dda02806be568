package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tensorir/go-tir/ir/npath"
	"github.com/tensorir/go-tir/parse"
	"github.com/tensorir/go-tir/render"
)

func showCmd() *cobra.Command {
	var (
		sugar      bool
		meta       bool
		width      int
		underlines []string
		annotates  []string
	)
	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Render a tree document as formatted text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := parse.File(args[0])
			if err != nil {
				return err
			}

			opts := []render.Option{
				render.Sugar(sugar),
				render.ShowMetadata(meta),
				render.LineWidth(width),
			}
			for _, u := range underlines {
				p, err := npath.Parse(u)
				if err != nil {
					return fmt.Errorf("--underline %s: %w", u, err)
				}
				opts = append(opts, render.Underline(render.ByPath(p)))
			}
			for _, a := range annotates {
				spec, label, ok := strings.Cut(a, "=")
				if !ok {
					return fmt.Errorf("--annotate wants PATH=LABEL, got %q", a)
				}
				p, err := npath.Parse(spec)
				if err != nil {
					return fmt.Errorf("--annotate %s: %w", spec, err)
				}
				opts = append(opts, render.Annotate(render.ByPath(p), label))
			}

			res, err := render.Render(root, opts...)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), res.Text)
			return nil
		},
	}
	cmd.Flags().BoolVar(&sugar, "sugar", false, "fold axis bindings into remap lines")
	cmd.Flags().BoolVar(&meta, "meta", false, "show dtypes and block numbers")
	cmd.Flags().IntVar(&width, "width", 0, "wrap bracketed lists at this display width (0 = never)")
	cmd.Flags().StringArrayVar(&underlines, "underline", nil, "underline the node at PATH (repeatable)")
	cmd.Flags().StringArrayVar(&annotates, "annotate", nil, "annotate the statement at PATH=LABEL (repeatable)")
	return cmd
}
