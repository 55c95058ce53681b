// Package network talks to EVM JSON-RPC nodes on behalf of the keyring controller.
package network

import (
	"context"
	"math/big"
	"strconv"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/params"
	"github.com/pkg/errors"
	"github/chapool/go-keyring/internal/util"
)

var (
	ErrNoRPCURL        = errors.New("at least one RPC URL is required")
	ErrAllRPCUnhealthy = errors.New("all RPC clients are unavailable")
)

// Client is the network surface the keyring server needs.
type Client interface {
	ChainID(ctx context.Context) (*big.Int, error)
	EstimateFee(ctx context.Context, msg ethereum.CallMsg) (*FeeEstimate, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	Balance(ctx context.Context, account common.Address) (*big.Int, error)
}

var _ Client = (*RPCClient)(nil)

// FeeEstimate holds EIP-1559 fee suggestions in wei. Total is the worst case cost of
// the call: GasLimit * MaxFeePerGas.
type FeeEstimate struct {
	GasLimit             uint64
	BaseFee              *big.Int
	MaxPriorityFeePerGas *big.Int
	MaxFeePerGas         *big.Int
	Total                *big.Int
}

// TotalEther renders Total in ether.
func (f *FeeEstimate) TotalEther() string {
	return WeiToEther(f.Total)
}

// WeiToEther formats an amount of wei as a decimal ether string without trailing zeros.
func WeiToEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}

	res := new(big.Rat).SetFrac(wei, big.NewInt(params.Ether)).FloatString(18)
	res = strings.TrimRight(res, "0")

	return strings.TrimSuffix(res, ".")
}

// RPCClient wraps several ethclient connections and fails over between them.
type RPCClient struct {
	mu      sync.Mutex
	urls    []string
	clients []*ethclient.Client
	current int

	chainID *big.Int
}

// NewRPCClient dials every url. Unreachable nodes are retried on use.
func NewRPCClient(ctx context.Context, urls []string) (*RPCClient, error) {
	if len(urls) == 0 {
		return nil, ErrNoRPCURL
	}

	log := util.LogFromContext(ctx)

	clients := make([]*ethclient.Client, 0, len(urls))
	connected := 0
	for _, url := range urls {
		client, err := ethclient.DialContext(ctx, url)
		if err != nil {
			log.Warn().Str("url", url).Err(err).Msg("Failed to connect to RPC node, will retry on use")
			clients = append(clients, nil)
			continue
		}
		clients = append(clients, client)
		connected++
	}

	if connected == 0 {
		return nil, errors.New("failed to connect to any RPC node")
	}

	return &RPCClient{
		urls:    urls,
		clients: clients,
	}, nil
}

// NewRPCClientWithClients wraps already connected clients, tried in order.
func NewRPCClientWithClients(clients ...*ethclient.Client) *RPCClient {
	urls := make([]string, len(clients))
	for i := range clients {
		urls[i] = "client-" + strconv.Itoa(i)
	}

	return &RPCClient{
		urls:    urls,
		clients: clients,
	}
}

func (c *RPCClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, client := range c.clients {
		if client != nil {
			client.Close()
		}
	}
}

// ChainID returns the chain id of the connected network. The first successful answer
// is cached.
func (c *RPCClient) ChainID(ctx context.Context) (*big.Int, error) {
	c.mu.Lock()
	cached := c.chainID
	c.mu.Unlock()

	if cached != nil {
		return new(big.Int).Set(cached), nil
	}

	_, chainID, err := c.getClient(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get chain ID")
	}

	c.mu.Lock()
	c.chainID = new(big.Int).Set(chainID)
	c.mu.Unlock()

	return chainID, nil
}

// EstimateFee suggests EIP-1559 fees for msg: the node's tip plus twice the latest base
// fee. msg.Gas is used as gas limit when set, otherwise the node estimates it.
func (c *RPCClient) EstimateFee(ctx context.Context, msg ethereum.CallMsg) (*FeeEstimate, error) {
	client, _, err := c.getClient(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get RPC client")
	}

	gasLimit := msg.Gas
	if gasLimit == 0 {
		gasLimit, err = c.EstimateGas(ctx, msg)
		if err != nil {
			return nil, err
		}
	}

	tipCap, err := client.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to suggest gas tip cap")
	}

	head, err := client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get latest header")
	}

	baseFee := big.NewInt(0)
	if head.BaseFee != nil {
		baseFee = new(big.Int).Set(head.BaseFee)
	}

	maxFee := new(big.Int).Mul(baseFee, big.NewInt(2))
	maxFee.Add(maxFee, tipCap)

	return &FeeEstimate{
		GasLimit:             gasLimit,
		BaseFee:              baseFee,
		MaxPriorityFeePerGas: tipCap,
		MaxFeePerGas:         maxFee,
		Total:                new(big.Int).Mul(maxFee, new(big.Int).SetUint64(gasLimit)),
	}, nil
}

// EstimateGas asks the node for the gas msg would use.
func (c *RPCClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	client, _, err := c.getClient(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get RPC client")
	}

	gas, err := client.EstimateGas(ctx, msg)
	if err != nil {
		return 0, errors.Wrap(err, "failed to estimate gas")
	}

	return gas, nil
}

// PendingNonceAt returns the pending nonce for the given address.
func (c *RPCClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	client, _, err := c.getClient(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get RPC client")
	}

	nonce, err := client.PendingNonceAt(ctx, account)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get pending nonce")
	}

	return nonce, nil
}

// Balance returns the balance of an address at the latest block.
func (c *RPCClient) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	client, _, err := c.getClient(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get RPC client")
	}

	balance, err := client.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get balance")
	}

	return balance, nil
}

// SendTransaction broadcasts a signed transaction.
func (c *RPCClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	client, _, err := c.getClient(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get RPC client")
	}

	if err := client.SendTransaction(ctx, tx); err != nil {
		return errors.Wrap(err, "failed to send transaction")
	}

	util.LogFromContext(ctx).Info().Str("txHash", tx.Hash().Hex()).Msg("Transaction sent")

	return nil
}

// getClient returns the first healthy client starting at the last one that worked,
// together with the chain id its health check reported.
func (c *RPCClient) getClient(ctx context.Context) (*ethclient.Client, *big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	log := util.LogFromContext(ctx)

	for i := range c.clients {
		idx := (c.current + i) % len(c.clients)

		if c.clients[idx] == nil {
			client, err := ethclient.DialContext(ctx, c.urls[idx])
			if err != nil {
				log.Warn().Str("url", c.urls[idx]).Err(err).Msg("Failed to reconnect to RPC node")
				continue
			}
			c.clients[idx] = client
		}

		client := c.clients[idx]

		chainID, err := client.ChainID(ctx)
		if err != nil {
			log.Warn().Str("url", c.urls[idx]).Err(err).Msg("RPC client health check failed")
			continue
		}

		c.current = idx

		return client, chainID, nil
	}

	return nil, nil, ErrAllRPCUnhealthy
}
