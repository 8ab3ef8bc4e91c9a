package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create <shape>",
	Short: "Build a record and print it",
	Long: `Build a record from --set assignments (and optionally a --file document),
validate it against its shape and print it in the configured format.

Example:
  recordctl create event --set location=Stockholm --set date=2018-12-12
  recordctl create talk --set title="Data Classes" --set event.location=Stockholm --set event.date=2018-12-12`,
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

		if repr, _ := cmd.Flags().GetBool("repr"); repr {
			fmt.Fprintln(cmd.OutOrStdout(), f.String())
			return nil
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

func addRecordFlags(c *cobra.Command) {
	c.Flags().StringArrayP("set", "s", nil, "Field assignment name=value (repeatable, dotted names for nested records)")
	c.Flags().StringP("file", "f", "", "Read field values from a JSON or YAML document")
	c.Flags().String("from", "", "Format of --file (json or yaml, default by extension)")
}

func init() {
	rootCmd.AddCommand(createCmd)
	addRecordFlags(createCmd)
	createCmd.Flags().Bool("repr", false, "Print the record's debug representation instead of its serialization")
}
