package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hultner-technologies/recordkit/pkg/record"
)

// shapesCmd represents the shapes command
var shapesCmd = &cobra.Command{
	Use:   "shapes [name]",
	Short: "List registered shapes",
	Long: `List the registered shapes and their fields, or a single shape by name.

Example:
  recordctl shapes
  recordctl --shapes talks.yaml shapes talk`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := container.Registry()
		if err != nil {
			return err
		}

		names := reg.Names()
		if len(args) == 1 {
			if _, err := lookupIn(reg, args[0]); err != nil {
				return err
			}
			names = args
		}

		for _, name := range names {
			shape, _ := reg.Get(name)
			fmt.Fprintln(cmd.OutOrStdout(), describe(shape))
		}
		return nil
	},
}

// describe renders a shape as name(field: kind, ...)
func describe(s *record.Shape) string {
	parts := make([]string, 0, s.Len())
	for _, f := range s.Fields() {
		kind := f.Kind.String()
		if f.Shape != nil {
			kind = f.Shape.Name()
		}
		switch {
		case f.Required:
			kind += " (required)"
		case f.HasDefault():
			kind += " (default)"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", f.Name, kind))
	}
	return fmt.Sprintf("%s(%s)", s.Name(), strings.Join(parts, ", "))
}

func init() {
	rootCmd.AddCommand(shapesCmd)
}
