package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/jonathan/cvbuilder/internal/schemas"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a résumé data file against the schema",
	Long:  "Checks a JSON or YAML data file against the built-in résumé schema, or against --schema when given.",
	RunE:  runValidateCmd,
}

var (
	validateInput  string
	validateSchema string
)

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "Path to résumé data file (required)")
	validateCmd.Flags().StringVar(&validateSchema, "schema", "", "Path to a JSON Schema to use instead of the built-in schema")

	if err := validateCmd.MarkFlagRequired("input"); err != nil {
		panic(fmt.Sprintf("failed to mark input flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidateCmd(cmd *cobra.Command, _ []string) error {
	return runValidate(cmd.OutOrStdout(), validateInput, validateSchema)
}

// runValidate checks one data file and prints every violation found
func runValidate(out io.Writer, input, schemaPath string) error {
	var err error
	if schemaPath != "" {
		err = schemas.ValidateJSON(schemaPath, input)
	} else {
		var v *schemas.Validator
		v, err = schemas.NewValidator()
		if err == nil {
			_, err = v.Load(input)
		}
	}

	if err == nil {
		_, _ = fmt.Fprintf(out, "Validation passed: %s\n", input)
		return nil
	}

	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		_, _ = fmt.Fprint(out, validationErr.Details())
		return fmt.Errorf("validation found %d violation(s) in %s", len(validationErr.Errors), input)
	}
	return err
}
