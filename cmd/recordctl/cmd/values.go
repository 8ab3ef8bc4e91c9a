package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hultner-technologies/recordkit/pkg/codec"
	"github.com/hultner-technologies/recordkit/pkg/record"
	"github.com/hultner-technologies/recordkit/pkg/schema"
)

// parseAssignments turns name=value pairs into raw record input. Dotted
// names address fields of nested records, e.g. venue.name=Waterfront.
func parseAssignments(shape *record.Shape, sets []string) (record.Values, error) {
	out := record.Values{}
	for _, kv := range sets {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid assignment %q (want name=value)", kv)
		}
		if err := assign(shape, out, strings.Split(name, "."), raw); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func assign(shape *record.Shape, out record.Values, path []string, raw string) error {
	f, ok := shape.Field(path[0])
	if !ok {
		// construction reports the unknown name
		out[strings.Join(path, ".")] = raw
		return nil
	}

	if len(path) > 1 {
		if f.Kind != record.KindRecord {
			return fmt.Errorf("field %q is a %s, not a record", f.Name, f.Kind)
		}
		nested, _ := out[f.Name].(record.Values)
		if nested == nil {
			nested = record.Values{}
			out[f.Name] = nested
		}
		return assign(f.Shape, nested, path[1:], raw)
	}

	v, err := convert(f, raw)
	if err != nil {
		return err
	}
	out[f.Name] = v
	return nil
}

// convert interprets command-line text according to the field kind.
// Timestamps stay textual so construction can coerce them.
func convert(f record.Field, raw string) (any, error) {
	switch f.Kind {
	case record.KindInteger:
		n, err := record.ParseInteger(raw)
		if err != nil {
			return nil, fmt.Errorf("field %q: %q is not an integer", f.Name, raw)
		}
		return n, nil
	case record.KindRecord:
		tree, err := codec.JSON.Unmarshal([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		return codec.Values(tree, f.Shape), nil
	default:
		return raw, nil
	}
}

// lookupShape resolves a shape name against the container registry
func lookupShape(name string) (*record.Shape, error) {
	reg, err := container.Registry()
	if err != nil {
		return nil, err
	}
	return lookupIn(reg, name)
}

func lookupIn(reg *schema.Registry, name string) (*record.Shape, error) {
	shape, ok := reg.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown shape %q (known: %s)", name, strings.Join(reg.Names(), ", "))
	}
	return shape, nil
}

// readInput reads a file argument, or standard input when absent or "-"
func readInput(cmd *cobra.Command, args []string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return data, "", err
	}
	data, err := os.ReadFile(filepath.Clean(args[0]))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return data, args[0], nil
}

// inputFormat picks the format for record text: the --from flag, then the
// file extension, then JSON
func inputFormat(cmd *cobra.Command, path string) (codec.Format, error) {
	if from, _ := cmd.Flags().GetString("from"); from != "" {
		return codec.FormatByName(from)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return codec.YAML, nil
	}
	return codec.JSON, nil
}

// buildRecord constructs a record from --set assignments and an optional
// --file document. Assignments override document fields.
func buildRecord(cmd *cobra.Command, shape *record.Shape) (*record.Frozen, error) {
	in := record.Values{}

	if path, _ := cmd.Flags().GetString("file"); path != "" {
		data, name, err := readInput(cmd, []string{path})
		if err != nil {
			return nil, err
		}
		format, err := inputFormat(cmd, name)
		if err != nil {
			return nil, err
		}
		tree, err := format.Unmarshal(data)
		if err != nil {
			return nil, err
		}
		in = codec.Values(tree, shape)
	}

	sets, _ := cmd.Flags().GetStringArray("set")
	assigned, err := parseAssignments(shape, sets)
	if err != nil {
		return nil, err
	}
	for k, v := range assigned {
		in[k] = v
	}

	return record.Create(shape, in)
}

func writeLine(cmd *cobra.Command, data []byte) {
	out := cmd.OutOrStdout()
	_, _ = out.Write(data)
	if len(data) == 0 || data[len(data)-1] != '\n' {
		_, _ = io.WriteString(out, "\n")
	}
}
