package cmd

import (
	"fmt"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <shape> <id>",
	Short: "Delete a stored record",
	Long: `Delete a record from the configured store.

Example:
  recordctl delete event 2K8vxlDmOQ9X0VnqXyVYa1s3lZk`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ksuid.Parse(args[1])
		if err != nil {
			return fmt.Errorf("invalid record id %q: %w", args[1], err)
		}

		records, err := container.OpenStore()
		if err != nil {
			return err
		}
		defer records.Close()

		if err := records.Delete(cmd.Context(), args[0], id); err != nil {
			return fmt.Errorf("failed to delete record: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", args[0], id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
