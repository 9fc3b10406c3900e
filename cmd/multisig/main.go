package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/code-payments/multisig-sdk/pkg/solana"
)

// Commonly used command line flags.
var (
	clusterFlag = &cli.StringFlag{
		Name:  "cluster",
		Usage: "devnet, testnet or mainnet-beta; overrides " + RpcEndpointConfigEnvName,
	}
	rpcFlag = &cli.StringFlag{
		Name:  "rpc",
		Usage: "RPC endpoint; overrides --cluster",
	}
	commitmentFlag = &cli.StringFlag{
		Name:  "commitment",
		Usage: "processed, confirmed or finalized",
		Value: "confirmed",
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "logrus level",
		Value: "warn",
	}
	logJSONFlag = &cli.BoolFlag{
		Name:  "log-json",
		Usage: "log as JSON",
	}
)

func newApp(provider ConfigProvider, clientCtor clientCtor) *cli.App {
	return &cli.App{
		Name:  "multisig",
		Usage: "inspect Squads v4 multisig accounts",
		Flags: []cli.Flag{
			clusterFlag,
			rpcFlag,
			commitmentFlag,
			logLevelFlag,
			logJSONFlag,
		},
		Before: setupLogging(provider),
		Commands: []*cli.Command{
			commandPDA(provider),
			commandProgramConfig(provider, clientCtor),
			commandMultisig(provider, clientCtor),
			commandSpendingLimit(provider, clientCtor),
			commandProposal(provider, clientCtor),
			commandConfigTransaction(provider, clientCtor),
			commandVaultTransaction(provider, clientCtor),
			commandLookupTable(provider, clientCtor),
		},
	}
}

func setupLogging(provider ConfigProvider) cli.BeforeFunc {
	return func(c *cli.Context) error {
		level, err := logrus.ParseLevel(c.String(logLevelFlag.Name))
		if err != nil {
			return err
		}
		logrus.SetLevel(level)

		if c.Bool(logJSONFlag.Name) || provider().logJSON.Get(context.Background()) {
			logrus.SetFormatter(&logrus.JSONFormatter{})
		} else {
			logrus.SetFormatter(&logrus.TextFormatter{})
		}
		logrus.SetOutput(c.App.ErrWriter)
		return nil
	}
}

func main() {
	app := newApp(WithEnvConfigs(), solana.New)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
