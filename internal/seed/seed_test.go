// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PetJournal Contributors

package seed

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSeedYAML = `
guardians:
  - first_name: Frida
    last_name: Kahlo
    email: frida@example.com
    phone: "11987654321"
    password: "correct horse"
  - first_name: Diego
    last_name: Rivera
    email: diego@example.com
    phone: "11912345678"
    password: "battery staple"
`

func TestGenerateSchema(t *testing.T) {
	ResetSchemaCache()

	data, err := GenerateSchema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))

	assert.Equal(t, SchemaID(), schema["$id"])
	assert.Equal(t, "PetJournal Guardian Seeds", schema["title"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok, "expected properties object")
	assert.Contains(t, props, "guardians")
}

func TestValidateSchema(t *testing.T) {
	ResetSchemaCache()

	t.Run("valid document", func(t *testing.T) {
		assert.NoError(t, ValidateSchema([]byte(validSeedYAML)))
	})

	t.Run("empty data", func(t *testing.T) {
		assert.Error(t, ValidateSchema(nil))
	})

	t.Run("broken yaml", func(t *testing.T) {
		err := ValidateSchema([]byte("guardians: ["))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid YAML")
	})

	t.Run("missing required field", func(t *testing.T) {
		err := ValidateSchema([]byte(`
guardians:
  - first_name: Frida
    last_name: Kahlo
    phone: "11987654321"
    password: "correct horse"
`))
		assert.Error(t, err)
	})

	t.Run("password too short", func(t *testing.T) {
		err := ValidateSchema([]byte(`
guardians:
  - first_name: Frida
    last_name: Kahlo
    email: frida@example.com
    phone: "11987654321"
    password: "short"
`))
		assert.Error(t, err)
	})
}

func TestLoadFile(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "guardians.yaml")
		require.NoError(t, os.WriteFile(path, []byte(validSeedYAML), 0o600))

		f, err := LoadFile(path)
		require.NoError(t, err)
		require.Len(t, f.Guardians, 2)
		assert.Equal(t, "Frida", f.Guardians[0].FirstName)
		assert.Equal(t, "diego@example.com", f.Guardians[1].Email)
	})

	t.Run("missing file", func(t *testing.T) {
		f, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Nil(t, f)
		assert.Error(t, err)
	})

	t.Run("invalid file is rejected by schema", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "guardians.yaml")
		require.NoError(t, os.WriteFile(path, []byte("guardians:\n  - first_name: OnlyName\n"), 0o600))

		f, err := LoadFile(path)
		assert.Nil(t, f)
		assert.Error(t, err)
	})
}
