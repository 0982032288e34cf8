package env

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv_DoesNotOverrideExisting(t *testing.T) {
	t.Setenv("ENV_PATH", "")
	t.Setenv("CH_TEST_PRESET", "process")
	t.Setenv("CH_TEST_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("CH_TEST_FROM_FILE"))

	require.NoError(t, LoadDotEnv("local", "testdata/app.env"))

	assert.Equal(t, "file", os.Getenv("CH_TEST_FROM_FILE"))
	assert.Equal(t, "process", os.Getenv("CH_TEST_PRESET"))
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	t.Setenv("ENV_PATH", "testdata/missing.env")

	assert.Error(t, LoadDotEnv("local", "testdata/app.env"))
	assert.Error(t, LoadDotEnv("", "testdata/app.env"))
	assert.NoError(t, LoadDotEnv("production", "testdata/app.env"))
}
