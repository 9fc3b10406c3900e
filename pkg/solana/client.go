package solana

import (
	"crypto/ed25519"
	"encoding/base64"
	"math/rand"
	"sync"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/ybbus/jsonrpc"

	"github.com/code-payments/multisig-sdk/pkg/retry"
)

const (
	// Reference: https://github.com/solana-labs/solana/blob/71e9958e061493d7545bd28d4ac7a85aaed6ffbb/client/src/rpc_custom_error.rs#L11
	rpcNodeUnhealthyCode = -32005

	// getMultipleAccounts rejects requests for more keys than this.
	maxMultipleAccounts = 100
)

type Commitment struct {
	Commitment string `json:"commitment"`
}

var (
	CommitmentProcessed = Commitment{Commitment: "processed"}
	CommitmentConfirmed = Commitment{Commitment: "confirmed"}
	CommitmentFinalized = Commitment{Commitment: "finalized"}
)

var (
	ErrNoAccountInfo = errors.New("no account info")

	// ErrRateLimited and ErrServiceError classify transient RPC failures so
	// callers can decide whether to retry.
	ErrRateLimited  = errors.New("rate limited")
	ErrServiceError = errors.New("service error")
)

// AccountInfo contains the Solana account information (not to be confused with a TokenAccount)
type AccountInfo struct {
	Data       []byte
	Owner      ed25519.PublicKey
	Lamports   uint64
	Executable bool
}

// Client provides the subset of the Solana JSON RPC API needed to read
// multisig state and build transactions.
//
// Reference: https://docs.solana.com/apps/jsonrpc-api
type Client interface {
	GetAccountInfo(ed25519.PublicKey, Commitment) (AccountInfo, error)
	// GetMultipleAccounts returns one entry per requested key, in order. Keys
	// without an account map to nil.
	GetMultipleAccounts([]ed25519.PublicKey, Commitment) ([]*AccountInfo, error)
	GetLatestBlockhash() (Blockhash, error)
	GetMinimumBalanceForRentExemption(size uint64) (lamports uint64, err error)
	GetSlot(Commitment) (uint64, error)
}

type ClientOption func(*clientOptions)

type clientOptions struct {
	rpcOpts *jsonrpc.RPCClientOpts
	retrier retry.Retrier
}

// WithRPCOptions configures the underlying JSON RPC client.
func WithRPCOptions(opts *jsonrpc.RPCClientOpts) ClientOption {
	return func(o *clientOptions) {
		o.rpcOpts = opts
	}
}

// WithRetrier makes the client retry failed calls through r. Errors seen by
// the retrier are classified as ErrRateLimited or ErrServiceError where
// possible. By default, every call is attempted exactly once.
func WithRetrier(r retry.Retrier) ClientOption {
	return func(o *clientOptions) {
		o.retrier = r
	}
}

type client struct {
	log     *logrus.Entry
	client  jsonrpc.RPCClient
	retrier retry.Retrier

	blockMu   sync.RWMutex
	blockhash Blockhash
	lastWrite time.Time
}

// New returns a client using the specified endpoint.
func New(endpoint string, opts ...ClientOption) Client {
	o := &clientOptions{
		retrier: retry.NoRetry(),
	}
	for _, opt := range opts {
		opt(o)
	}

	return &client{
		log:     logrus.StandardLogger().WithField("type", "solana/client"),
		client:  jsonrpc.NewClientWithOpts(endpoint, o.rpcOpts),
		retrier: o.retrier,
	}
}

func (c *client) call(out interface{}, method string, params ...interface{}) error {
	_, err := c.retrier.Retry(func() error {
		err := c.client.CallFor(out, method, params...)
		if err == nil {
			return nil
		}

		return c.handleRpcError(method, err)
	})

	return err
}

func (c *client) handleRpcError(method string, err error) error {
	var code int
	switch typed := err.(type) {
	case *jsonrpc.RPCError:
		code = typed.Code
	case *jsonrpc.HTTPError:
		code = typed.Code
	default:
		return err
	}

	log := c.log.WithFields(logrus.Fields{
		"method": method,
		"code":   code,
	})

	if code == 429 {
		log.Warn("rate limited")
		return errors.Wrap(ErrRateLimited, err.Error())
	}
	if code >= 500 || code == rpcNodeUnhealthyCode {
		log.Warn("service error")
		return errors.Wrap(ErrServiceError, err.Error())
	}

	return err
}

type rpcAccountInfo struct {
	Lamports   uint64   `json:"lamports"`
	Owner      string   `json:"owner"`
	Data       []string `json:"data"`
	Executable bool     `json:"executable"`
}

func (r *rpcAccountInfo) toAccountInfo() (accountInfo AccountInfo, err error) {
	accountInfo.Owner, err = base58.Decode(r.Owner)
	if err != nil {
		return accountInfo, errors.Wrap(err, "invalid base58 encoded owner")
	}

	if len(r.Data) == 0 {
		return accountInfo, errors.New("missing account data")
	}
	accountInfo.Data, err = base64.StdEncoding.DecodeString(r.Data[0])
	if err != nil {
		return accountInfo, errors.Wrap(err, "invalid base64 encoded data")
	}

	accountInfo.Lamports = r.Lamports
	accountInfo.Executable = r.Executable

	return accountInfo, nil
}

type accountConfig struct {
	Commitment string `json:"commitment"`
	Encoding   string `json:"encoding"`
}

func (c *client) GetAccountInfo(account ed25519.PublicKey, commitment Commitment) (accountInfo AccountInfo, err error) {
	type rpcResponse struct {
		Value *rpcAccountInfo `json:"value"`
	}

	config := accountConfig{
		Commitment: commitment.Commitment,
		Encoding:   "base64",
	}

	var resp rpcResponse
	if err := c.call(&resp, "getAccountInfo", base58.Encode(account), config); err != nil {
		return accountInfo, errors.Wrap(err, "getAccountInfo() failed to send request")
	}

	if resp.Value == nil {
		return accountInfo, ErrNoAccountInfo
	}

	return resp.Value.toAccountInfo()
}

func (c *client) GetMultipleAccounts(accounts []ed25519.PublicKey, commitment Commitment) ([]*AccountInfo, error) {
	type rpcResponse struct {
		Value []*rpcAccountInfo `json:"value"`
	}

	config := accountConfig{
		Commitment: commitment.Commitment,
		Encoding:   "base64",
	}

	result := make([]*AccountInfo, 0, len(accounts))
	for start := 0; start < len(accounts); start += maxMultipleAccounts {
		end := start + maxMultipleAccounts
		if end > len(accounts) {
			end = len(accounts)
		}

		keys := make([]string, 0, end-start)
		for _, account := range accounts[start:end] {
			keys = append(keys, base58.Encode(account))
		}

		var resp rpcResponse
		if err := c.call(&resp, "getMultipleAccounts", keys, config); err != nil {
			return nil, errors.Wrap(err, "getMultipleAccounts() failed to send request")
		}
		if len(resp.Value) != len(keys) {
			return nil, errors.Errorf("getMultipleAccounts() returned %d accounts, expected %d", len(resp.Value), len(keys))
		}

		for i, value := range resp.Value {
			if value == nil {
				result = append(result, nil)
				continue
			}

			accountInfo, err := value.toAccountInfo()
			if err != nil {
				return nil, errors.Wrapf(err, "invalid account info for %s", keys[i])
			}
			result = append(result, &accountInfo)
		}
	}

	return result, nil
}

func (c *client) GetMinimumBalanceForRentExemption(dataSize uint64) (lamports uint64, err error) {
	if err := c.call(&lamports, "getMinimumBalanceForRentExemption", dataSize); err != nil {
		return 0, errors.Wrapf(err, "getMinimumBalanceForRentExemption() failed to send request")
	}

	return lamports, nil
}

func (c *client) GetSlot(commitment Commitment) (slot uint64, err error) {
	// note: a lone struct param is sent as the params object rather than an
	//       array, which the RPC node rejects.
	if err := c.call(&slot, "getSlot", []interface{}{commitment}); err != nil {
		return 0, errors.Wrapf(err, "getSlot() failed to send request")
	}

	return slot, nil
}

func (c *client) GetLatestBlockhash() (hash Blockhash, err error) {
	// The cached blockhash expires after a jittered 1.6s to 3.6s.
	window := time.Duration(float64(2*time.Second) * (0.8 + rand.Float64()))

	c.blockMu.RLock()
	if time.Since(c.lastWrite) < window {
		hash = c.blockhash
	}
	c.blockMu.RUnlock()

	if hash != (Blockhash{}) {
		return hash, nil
	}

	type response struct {
		Value struct {
			Blockhash string `json:"blockhash"`
		} `json:"value"`
	}

	var resp response
	if err := c.call(&resp, "getLatestBlockhash"); err != nil {
		return hash, errors.Wrapf(err, "getLatestBlockhash() failed to send request")
	}

	hashBytes, err := base58.Decode(resp.Value.Blockhash)
	if err != nil {
		return hash, errors.Wrap(err, "invalid base58 encoded hash in response")
	}
	if len(hashBytes) != len(hash) {
		return hash, errors.Errorf("invalid blockhash size: %d", len(hashBytes))
	}

	copy(hash[:], hashBytes)

	c.blockMu.Lock()
	c.blockhash = hash
	c.lastWrite = time.Now()
	c.blockMu.Unlock()

	return hash, nil
}
