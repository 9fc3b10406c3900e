package env

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/multisig-sdk/pkg/config"
)

func TestConfigDoesntExist(t *testing.T) {
	const env = "ENV_CONFIG_TEST_VAR"
	t.Setenv(env, "default")

	c := NewConfig(env)

	v, err := c.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("default"), v)

	t.Setenv(env, "")

	v, err = c.Get(context.Background())
	assert.Nil(t, v)
	assert.Equal(t, config.ErrNoValue, err)
}

func TestKeyIsUpperCased(t *testing.T) {
	t.Setenv("ENV_CONFIG_TEST_UPPER", "value")

	v, err := NewConfig("env_config_test_upper").Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), v)
}

func TestTypedConfigs(t *testing.T) {
	t.Setenv("ENV_CONFIG_TEST_UINT64", "42")
	t.Setenv("ENV_CONFIG_TEST_DURATION", "1500ms")
	t.Setenv("ENV_CONFIG_TEST_BOOL", "true")
	t.Setenv("ENV_CONFIG_TEST_STRING", " https://example.com ")

	ctx := context.Background()
	assert.EqualValues(t, 42, NewUint64Config("ENV_CONFIG_TEST_UINT64", 1).Get(ctx))
	assert.Equal(t, 1500*time.Millisecond, NewDurationConfig("ENV_CONFIG_TEST_DURATION", time.Second).Get(ctx))
	assert.True(t, NewBoolConfig("ENV_CONFIG_TEST_BOOL", false).Get(ctx))
	assert.Equal(t, "https://example.com", NewStringConfig("ENV_CONFIG_TEST_STRING", "").Get(ctx))

	assert.EqualValues(t, 7, NewUint64Config("ENV_CONFIG_TEST_UNSET", 7).Get(ctx))

	t.Setenv("ENV_CONFIG_TEST_UINT64", "not a number")
	v, err := NewUint64Config("ENV_CONFIG_TEST_UINT64", 1).GetSafe(ctx)
	assert.Error(t, err)
	assert.EqualValues(t, 1, v)
}
