package solana

import "strings"

type Environment string

const (
	EnvironmentDev  Environment = "https://api.devnet.solana.com"
	EnvironmentTest Environment = "https://api.testnet.solana.com"
	EnvironmentProd Environment = "https://api.mainnet-beta.solana.com"
)

// ParseEnvironment maps a cluster moniker (devnet, testnet, mainnet-beta) to
// its public RPC endpoint.
func ParseEnvironment(cluster string) (Environment, bool) {
	switch strings.ToLower(cluster) {
	case "devnet", "dev":
		return EnvironmentDev, true
	case "testnet", "test":
		return EnvironmentTest, true
	case "mainnet-beta", "mainnet", "prod":
		return EnvironmentProd, true
	}
	return "", false
}
