package memory

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/multisig-sdk/pkg/config"
)

func TestConfig(t *testing.T) {
	ctx := context.Background()

	c := NewConfig(nil)
	_, err := c.Get(ctx)
	assert.Equal(t, config.ErrNoValue, err)

	for _, value := range []interface{}{"http://localhost:8899", uint64(64), 10 * time.Second} {
		c.SetValue(value)
		actual, err := c.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, value, actual)
	}

	rpcErr := errors.New("unavailable")
	c.SetError(rpcErr)
	_, err = c.Get(ctx)
	assert.Equal(t, rpcErr, err)

	c.SetError(nil)
	actual, err := c.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, actual)

	c.ClearValue()
	_, err = c.Get(ctx)
	assert.Equal(t, config.ErrNoValue, err)

	c.Shutdown()
	c.SetValue("ignored")
	_, err = c.Get(ctx)
	assert.Equal(t, config.ErrShutdown, err)
}
