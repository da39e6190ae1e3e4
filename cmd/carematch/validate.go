package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/carematch/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a JSON document against a schema",
	Long: fmt.Sprintf(`Validate a JSON document, such as saved recommend output, against a JSON Schema.

--schema is either the name of a built-in schema (%s) or a path to a schema file.`,
		strings.Join(schemas.Names(), ", ")),
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runValidate(cmd.OutOrStdout(), valSchema, valJSON)
	},
}

var (
	valSchema string
	valJSON   string
)

func init() {
	validateCmd.Flags().StringVarP(&valSchema, "schema", "s", "", "Built-in schema name or path to a schema file")
	validateCmd.Flags().StringVarP(&valJSON, "json", "f", "", "Path to the JSON document")
	_ = validateCmd.MarkFlagRequired("schema")
	_ = validateCmd.MarkFlagRequired("json")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(out io.Writer, schema, docPath string) error {
	doc, err := os.ReadFile(docPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", docPath, err)
	}

	if slices.Contains(schemas.Names(), schema) {
		err = schemas.Validate(schema, doc)
	} else {
		var content []byte
		content, err = os.ReadFile(schema)
		if err != nil {
			return fmt.Errorf("unknown schema %q: not built in (%s) and not readable: %w",
				schema, strings.Join(schemas.Names(), ", "), err)
		}
		err = schemas.ValidateJSONString(string(content), string(doc))
	}

	var ve *schemas.ValidationError
	if errors.As(err, &ve) {
		_, _ = fmt.Fprintf(out, "Validation failed: %d error(s)\n", len(ve.Errors))
		for _, fe := range ve.Errors {
			_, _ = fmt.Fprintf(out, "  %s: %s\n", fe.Field, fe.Message)
		}
		return err
	}
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Validation passed: %s\n", docPath)
	return nil
}
