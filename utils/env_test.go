package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvVar(t *testing.T) {
	t.Setenv("BULLETIN_TEST_VAR", "value")
	assert.Equal(t, "value", GetEnvVar("BULLETIN_TEST_VAR"))

	assert.Panics(t, func() { GetEnvVar("BULLETIN_TEST_MISSING") })
}

func TestGetEnvVarWithDefault(t *testing.T) {
	t.Setenv("BULLETIN_TEST_VAR", "value")
	assert.Equal(t, "value", GetEnvVarWithDefault("BULLETIN_TEST_VAR", "fallback"))
	assert.Equal(t, "fallback", GetEnvVarWithDefault("BULLETIN_TEST_MISSING", "fallback"))
}
