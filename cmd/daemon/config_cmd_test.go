// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	t.Setenv("CHESS_A2A_ARTIFACTS_DIR", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestConfigCLI_Validate(t *testing.T) {
	good := writeConfig(t, "logLevel: debug\n")
	var out, errOut bytes.Buffer
	assert.Equal(t, 0, configCLI([]string{"validate", "-f", good}, &out, &errOut))
	assert.Contains(t, out.String(), "valid")

	bad := writeConfig(t, "logLevel: debug\nbogus: 1\n")
	out.Reset()
	errOut.Reset()
	assert.Equal(t, 1, configCLI([]string{"validate", "--file", bad}, &out, &errOut))
	assert.Contains(t, errOut.String(), "bogus")
}

func TestConfigCLI_DumpMasksSecrets(t *testing.T) {
	path := writeConfig(t, "store:\n  redis:\n    password: hunter2\n")
	var out, errOut bytes.Buffer
	require.Equal(t, 0, configCLI([]string{"dump", "-f", path, "--format=json"}, &out, &errOut), errOut.String())

	assert.NotContains(t, out.String(), "hunter2")
	var dumped map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &dumped))
	redis := dumped["Store"].(map[string]any)["Redis"].(map[string]any)
	assert.Equal(t, "***", redis["Password"])
}

func TestConfigCLI_Usage(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 0, configCLI(nil, &out, &errOut))
	assert.Contains(t, errOut.String(), "Usage")

	errOut.Reset()
	assert.Equal(t, 2, configCLI([]string{"explode"}, &out, &errOut))

	path := writeConfig(t, "")
	assert.Equal(t, 2, configCLI([]string{"dump", "-f", path, "--format=toml"}, &out, &errOut))
}
