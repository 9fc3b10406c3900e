package main

import (
	"time"

	"github.com/mr-tron/base58"

	"github.com/code-payments/multisig-sdk/pkg/config"
	"github.com/code-payments/multisig-sdk/pkg/config/env"
	"github.com/code-payments/multisig-sdk/pkg/config/memory"
	"github.com/code-payments/multisig-sdk/pkg/config/wrapper"
	"github.com/code-payments/multisig-sdk/pkg/solana"
	"github.com/code-payments/multisig-sdk/pkg/solana/multisig"
)

const (
	envConfigPrefix = "MULTISIG_CLI_"

	RpcEndpointConfigEnvName = envConfigPrefix + "RPC_ENDPOINT"
	defaultRpcEndpoint       = string(solana.EnvironmentProd)

	ProgramIdConfigEnvName = envConfigPrefix + "PROGRAM_ID"

	LookupTableCacheBudgetConfigEnvName = envConfigPrefix + "LOOKUP_TABLE_CACHE_BUDGET"
	defaultLookupTableCacheBudget       = 64

	RpcRetryLimitConfigEnvName = envConfigPrefix + "RPC_RETRY_LIMIT"
	defaultRpcRetryLimit       = 3

	RpcMaxBackoffConfigEnvName = envConfigPrefix + "RPC_MAX_BACKOFF"
	defaultRpcMaxBackoff       = 10 * time.Second

	LogJSONConfigEnvName = envConfigPrefix + "LOG_JSON"
	defaultLogJSON       = false
)

var defaultProgramId = base58.Encode(multisig.PROGRAM_ID)

type conf struct {
	rpcEndpoint            config.String
	programId              config.String
	lookupTableCacheBudget config.Uint64
	rpcRetryLimit          config.Uint64
	rpcMaxBackoff          config.Duration
	logJSON                config.Bool
}

// ConfigProvider defines how config values are pulled
type ConfigProvider func() *conf

// WithEnvConfigs returns configuration pulled from environment variables
func WithEnvConfigs() ConfigProvider {
	return func() *conf {
		return &conf{
			rpcEndpoint:            env.NewStringConfig(RpcEndpointConfigEnvName, defaultRpcEndpoint),
			programId:              env.NewStringConfig(ProgramIdConfigEnvName, defaultProgramId),
			lookupTableCacheBudget: env.NewUint64Config(LookupTableCacheBudgetConfigEnvName, defaultLookupTableCacheBudget),
			rpcRetryLimit:          env.NewUint64Config(RpcRetryLimitConfigEnvName, defaultRpcRetryLimit),
			rpcMaxBackoff:          env.NewDurationConfig(RpcMaxBackoffConfigEnvName, defaultRpcMaxBackoff),
			logJSON:                env.NewBoolConfig(LogJSONConfigEnvName, defaultLogJSON),
		}
	}
}

type testOverrides struct {
	rpcEndpoint string
	programId   string
	logJSON     bool
}

func withManualTestOverrides(overrides *testOverrides) ConfigProvider {
	return func() *conf {
		programId := memory.NewConfig(nil)
		if len(overrides.programId) > 0 {
			programId.SetValue(overrides.programId)
		}

		return &conf{
			rpcEndpoint:            wrapper.NewStringConfig(memory.NewConfig(overrides.rpcEndpoint), defaultRpcEndpoint),
			programId:              wrapper.NewStringConfig(programId, defaultProgramId),
			lookupTableCacheBudget: wrapper.NewUint64Config(memory.NewConfig(uint64(defaultLookupTableCacheBudget)), defaultLookupTableCacheBudget),
			rpcRetryLimit:          wrapper.NewUint64Config(memory.NewConfig(uint64(0)), defaultRpcRetryLimit),
			rpcMaxBackoff:          wrapper.NewDurationConfig(memory.NewConfig(time.Millisecond), defaultRpcMaxBackoff),
			logJSON:                wrapper.NewBoolConfig(memory.NewConfig(overrides.logJSON), defaultLogJSON),
		}
	}
}
