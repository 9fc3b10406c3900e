package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvConfigs(t *testing.T) {
	ctx := context.Background()

	conf := WithEnvConfigs()()
	assert.Equal(t, defaultRpcEndpoint, conf.rpcEndpoint.Get(ctx))
	assert.Equal(t, defaultProgramId, conf.programId.Get(ctx))
	assert.EqualValues(t, defaultLookupTableCacheBudget, conf.lookupTableCacheBudget.Get(ctx))
	assert.EqualValues(t, defaultRpcRetryLimit, conf.rpcRetryLimit.Get(ctx))
	assert.Equal(t, defaultRpcMaxBackoff, conf.rpcMaxBackoff.Get(ctx))
	assert.False(t, conf.logJSON.Get(ctx))

	t.Setenv(RpcEndpointConfigEnvName, "http://localhost:8899")
	t.Setenv(LookupTableCacheBudgetConfigEnvName, "8")
	t.Setenv(RpcRetryLimitConfigEnvName, "0")
	t.Setenv(RpcMaxBackoffConfigEnvName, "250ms")
	t.Setenv(LogJSONConfigEnvName, "true")

	assert.Equal(t, "http://localhost:8899", conf.rpcEndpoint.Get(ctx))
	assert.EqualValues(t, 8, conf.lookupTableCacheBudget.Get(ctx))
	assert.EqualValues(t, 0, conf.rpcRetryLimit.Get(ctx))
	assert.Equal(t, 250*time.Millisecond, conf.rpcMaxBackoff.Get(ctx))
	assert.True(t, conf.logJSON.Get(ctx))
}

func TestManualTestOverrides(t *testing.T) {
	ctx := context.Background()

	conf := withManualTestOverrides(&testOverrides{rpcEndpoint: "http://localhost:8899"})()
	assert.Equal(t, "http://localhost:8899", conf.rpcEndpoint.Get(ctx))
	assert.Equal(t, defaultProgramId, conf.programId.Get(ctx))

	conf = withManualTestOverrides(&testOverrides{programId: "11111111111111111111111111111111"})()
	assert.Equal(t, "11111111111111111111111111111111", conf.programId.Get(ctx))
}
