package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hultner-technologies/recordkit/pkg/query"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list <shape>",
	Short: "List stored records of a shape",
	Long: `Print every stored record of a shape, oldest first, one per line as
"<id> <record>". --where conditions (field op value, op one of
= != > < >= <=) must all hold.

Example:
  recordctl list event
  recordctl list event --where year>=2018 --where location=Stockholm`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		shape, err := lookupShape(args[0])
		if err != nil {
			return err
		}

		wheres, _ := cmd.Flags().GetStringArray("where")
		filter, err := query.Compile(shape, wheres...)
		if err != nil {
			return err
		}

		records, err := container.OpenStore()
		if err != nil {
			return err
		}
		defer records.Close()

		entries, err := records.List(cmd.Context(), shape)
		if err != nil {
			return fmt.Errorf("failed to list records: %w", err)
		}

		for _, e := range entries {
			if !filter.Match(e.Record) {
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", e.ID, e.Record)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringArrayP("where", "w", nil, "Filter condition such as year>=2018 (repeatable)")
}
