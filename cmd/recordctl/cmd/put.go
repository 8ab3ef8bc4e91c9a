package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// putCmd represents the put command
var putCmd = &cobra.Command{
	Use:   "put <shape>",
	Short: "Build a record and store it",
	Long: `Build a record like "create" and save it in the configured store.
The generated record id is printed.

Example:
  recordctl put event --set location=Stockholm --set date=2018-12-12
  recordctl --backend redis put event -f event.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		shape, err := lookupShape(args[0])
		if err != nil {
			return err
		}

		f, err := buildRecord(cmd, shape)
		if err != nil {
			return err
		}

		records, err := container.OpenStore()
		if err != nil {
			return err
		}
		defer records.Close()

		id, err := records.Save(cmd.Context(), f)
		if err != nil {
			return fmt.Errorf("failed to save record: %w", err)
		}
		container.Logger().Debug("saved record", "shape", shape.Name(), "id", id)

		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(putCmd)
	addRecordFlags(putCmd)
}
