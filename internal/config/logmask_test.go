// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "redis://localhost:6379", want: "redis://localhost:6379"},
		{in: "postgres://user:pw@db:5432/app", want: "postgres://user:xxxxx@db:5432/app"},
		{in: "postgres://%zz", want: "invalid-url-redacted"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MaskURL(tt.in), tt.in)
	}
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret(""))
	assert.Equal(t, "***", MaskSecret("sk-live"))
}

func TestSettings_RedactedHidesSecrets(t *testing.T) {
	env := requiredEnv()
	env[EnvDatabaseURL] = "postgres://user:pw@db:5432/app"
	env[EnvOpenAIAPIKey] = "sk-openai"

	s, err := FromEnv(env)
	require.NoError(t, err)

	red := s.Redacted()
	assert.Equal(t, "***", red[EnvInternalAPIKey])
	assert.Equal(t, "***", red[EnvOpenAIAPIKey])
	assert.Equal(t, "", red[EnvAnthropicAPIKey])
	assert.Equal(t, "postgres://user:xxxxx@db:5432/app", red[EnvDatabaseURL])
	assert.Equal(t, 5000, red[EnvPort])

	for _, key := range KnownEnvKeys() {
		assert.Contains(t, red, key, "redacted view must cover every known key")
	}
}

func TestIsSensitiveKey(t *testing.T) {
	assert.True(t, isSensitiveKey(EnvInternalAPIKey))
	assert.True(t, isSensitiveKey(EnvOpenAIAPIKey))
	assert.False(t, isSensitiveKey(EnvDatabaseURL))
	assert.False(t, isSensitiveKey(EnvPort))
}
