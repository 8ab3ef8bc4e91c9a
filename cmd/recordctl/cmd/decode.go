package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hultner-technologies/recordkit/pkg/codec"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode <shape> [file]",
	Short: "Validate record text and print it canonically",
	Long: `Parse a JSON or YAML document (from a file or standard input), construct
a record of the given shape and print it in the configured format.

Example:
  echo '{"location":"Stockholm","date":"2018-12-12 18:00"}' | recordctl decode event
  recordctl --format yaml decode event event.json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		shape, err := lookupShape(args[0])
		if err != nil {
			return err
		}

		data, name, err := readInput(cmd, args[1:])
		if err != nil {
			return err
		}
		in, err := inputFormat(cmd, name)
		if err != nil {
			return err
		}

		r, err := codec.NewRecordCodec(codec.WithFormat(in)).Deserialize(data, shape)
		if err != nil {
			return err
		}
		container.Logger().Debug("decoded record", "shape", shape.Name(), "format", in.Name())

		out, err := container.Codec()
		if err != nil {
			return err
		}
		text, err := out.Serialize(r)
		if err != nil {
			return err
		}
		writeLine(cmd, text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().String("from", "", "Input format (json or yaml, default by extension)")
}
