package cmd

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelpersCmd(t *testing.T) {
	assert.Equal(t, "helpers", HelpersCmd.Use)
	assert.NotNil(t, HelpersCmd.Run)

	var commandNames []string
	for _, c := range HelpersCmd.Commands() {
		commandNames = append(commandNames, c.Use)
	}
	assert.Contains(t, commandNames, "generate-secret")
	assert.Contains(t, commandNames, "generate-vapid-keys")
}

func TestGenerateSecret(t *testing.T) {
	secret, err := generateSecret(32)
	require.NoError(t, err)
	assert.Len(t, secret, 64)

	raw, err := hex.DecodeString(secret)
	require.NoError(t, err)
	assert.Len(t, raw, 32)

	other, err := generateSecret(32)
	require.NoError(t, err)
	assert.NotEqual(t, secret, other)

	_, err = generateSecret(8)
	assert.Error(t, err)
}

func TestGenerateSecretCmd(t *testing.T) {
	secretBytes = 16
	t.Cleanup(func() { secretBytes = 32 })

	var out bytes.Buffer
	generateSecretCmd.SetOut(&out)
	t.Cleanup(func() { generateSecretCmd.SetOut(nil) })

	require.NoError(t, runGenerateSecret(generateSecretCmd, nil))

	line := strings.TrimSpace(out.String())
	require.True(t, strings.HasPrefix(line, "API_SECRET="), line)
	assert.Len(t, strings.TrimPrefix(line, "API_SECRET="), 32)
}

func TestGenerateVAPIDKeysCmd(t *testing.T) {
	var out bytes.Buffer
	generateVAPIDKeysCmd.SetOut(&out)
	t.Cleanup(func() { generateVAPIDKeysCmd.SetOut(nil) })

	require.NoError(t, runGenerateVAPIDKeys(generateVAPIDKeysCmd, nil))

	values := map[string]string{}
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		key, value, ok := strings.Cut(line, "=")
		require.True(t, ok, line)
		values[key] = value
	}

	public, err := base64.RawURLEncoding.DecodeString(values["VAPID_PUBLIC_KEY"])
	require.NoError(t, err)
	assert.Len(t, public, 65)
	assert.Equal(t, byte(0x04), public[0])

	private, err := base64.RawURLEncoding.DecodeString(values["VAPID_PRIVATE_KEY"])
	require.NoError(t, err)
	assert.Len(t, private, 32)
}
