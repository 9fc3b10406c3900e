package main

import (
	"context"
	"crypto/ed25519"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/code-payments/multisig-sdk/pkg/retry"
	"github.com/code-payments/multisig-sdk/pkg/retry/backoff"
	"github.com/code-payments/multisig-sdk/pkg/solana"
	"github.com/code-payments/multisig-sdk/pkg/solana/addresslookuptable"
)

type clientCtor func(endpoint string, opts ...solana.ClientOption) solana.Client

// environment is everything a command needs to read chain state.
type environment struct {
	log        *logrus.Entry
	client     solana.Client
	fetcher    *addresslookuptable.Fetcher
	commitment solana.Commitment
	programId  ed25519.PublicKey
}

func newEnvironment(c *cli.Context, provider ConfigProvider, newClient clientCtor) (*environment, error) {
	ctx := context.Background()
	conf := provider()
	log := logrus.StandardLogger().WithField("type", "cmd/multisig")

	endpoint := conf.rpcEndpoint.Get(ctx)
	if cluster := c.String(clusterFlag.Name); len(cluster) > 0 {
		clusterEndpoint, ok := solana.ParseEnvironment(cluster)
		if !ok {
			return nil, errors.Errorf("unknown cluster: %s", cluster)
		}
		endpoint = string(clusterEndpoint)
	}
	if rpc := c.String(rpcFlag.Name); len(rpc) > 0 {
		endpoint = rpc
	}

	commitment, err := parseCommitment(c.String(commitmentFlag.Name))
	if err != nil {
		return nil, err
	}

	programId, err := solana.PublicKeyFromBase58(conf.programId.Get(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "invalid program id")
	}

	retrier := retry.NewRetrier(
		retry.RetriableErrors(solana.ErrRateLimited, solana.ErrServiceError),
		retry.Limit(uint(conf.rpcRetryLimit.Get(ctx))+1),
		retry.OnRetry(func(attempts uint, err error) {
			log.WithError(err).WithField("attempts", attempts).Warn("retrying rpc call")
		}),
		retry.BackoffWithJitter(backoff.BinaryExponential(time.Second), conf.rpcMaxBackoff.Get(ctx), 0.1),
	)

	log = log.WithField("endpoint", endpoint)
	log.Debug("using rpc endpoint")

	client := newClient(endpoint, solana.WithRetrier(retrier))

	return &environment{
		log:        log,
		client:     client,
		fetcher:    addresslookuptable.NewFetcher(client, commitment, int(conf.lookupTableCacheBudget.Get(ctx))),
		commitment: commitment,
		programId:  programId,
	}, nil
}

func parseCommitment(value string) (solana.Commitment, error) {
	switch strings.ToLower(value) {
	case "processed":
		return solana.CommitmentProcessed, nil
	case "confirmed":
		return solana.CommitmentConfirmed, nil
	case "finalized":
		return solana.CommitmentFinalized, nil
	}
	return solana.Commitment{}, errors.Errorf("unknown commitment: %s", value)
}

func keyArg(c *cli.Context, index int, name string) (ed25519.PublicKey, error) {
	value := c.Args().Get(index)
	if len(value) == 0 {
		return nil, errors.Errorf("missing %s", name)
	}

	key, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid %s", name)
	}
	return key, nil
}

func uint64Arg(c *cli.Context, index int, name string) (uint64, error) {
	value := c.Args().Get(index)
	if len(value) == 0 {
		return 0, errors.Errorf("missing %s", name)
	}

	v, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s", name)
	}
	return v, nil
}
