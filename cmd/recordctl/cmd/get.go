package cmd

import (
	"fmt"

	"github.com/segmentio/ksuid"
	"github.com/spf13/cobra"
)

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <shape> <id>",
	Short: "Print a stored record",
	Long: `Load a record from the configured store and print it in the configured
format.

Example:
  recordctl get event 2K8vxlDmOQ9X0VnqXyVYa1s3lZk`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		shape, err := lookupShape(args[0])
		if err != nil {
			return err
		}
		id, err := ksuid.Parse(args[1])
		if err != nil {
			return fmt.Errorf("invalid record id %q: %w", args[1], err)
		}

		records, err := container.OpenStore()
		if err != nil {
			return err
		}
		defer records.Close()

		f, err := records.Load(cmd.Context(), shape, id)
		if err != nil {
			return fmt.Errorf("failed to load record: %w", err)
		}

		c, err := container.Codec()
		if err != nil {
			return err
		}
		data, err := c.Serialize(f)
		if err != nil {
			return err
		}
		writeLine(cmd, data)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
