package main

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/ersonp/lore-graph/internal/infrastructure/parsers"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the record file",
		Long:  "Prints the JSON Schema that YAML and JSON record files follow, for editor validation.",
		Args:  cobra.NoArgs,
		RunE:  runSchema,
	}
}

func runSchema(cmd *cobra.Command, args []string) error {
	data, err := json.MarshalIndent(recordSchema(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding schema: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

// recordSchema reflects the record file shape. Properties are listed in
// declaration order and unknown keys are rejected, matching the parsers.
func recordSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: false,
		DoNotReference:             true,
	}
	schema := r.Reflect(&parsers.SourceFile{})
	schema.Title = "loregraph records"
	return schema
}
