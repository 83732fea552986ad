package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunValidate_Passes(t *testing.T) {
	var out bytes.Buffer
	input := filepath.Join("testdata", "sample", "jane.json")

	require.NoError(t, runValidate(&out, input, ""))
	assert.Contains(t, out.String(), "Validation passed")
}

func TestRunValidate_ReportsViolations(t *testing.T) {
	input := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(input, []byte(`{
		"contactInfo": [{"kind": "phone", "info": "555-0100"}],
		"sections": []
	}`), 0o644))

	var out bytes.Buffer
	err := runValidate(&out, input, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation found 2 violation(s)")
	assert.Contains(t, out.String(), "1. name:")
	assert.Contains(t, out.String(), "contactInfo.0.kind")
}

func TestRunValidate_CustomSchema(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{
		"type": "object",
		"required": ["headline"]
	}`), 0o644))

	var out bytes.Buffer
	err := runValidate(&out, filepath.Join("testdata", "sample", "jane.json"), schemaPath)
	require.Error(t, err)
	assert.Contains(t, out.String(), "headline")
}

func TestRunValidate_MalformedFile(t *testing.T) {
	input := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(input, []byte(`{ "name": `), 0o644))

	err := runValidate(&bytes.Buffer{}, input, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON format")
}

func TestValidateCommand_MissingInputFlag(t *testing.T) {
	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "validate")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "required flag(s) \"input\" not set")
}
