package keyring_test

import (
	"context"
	"math/big"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/go-keyring/internal/api"
	"github/chapool/go-keyring/internal/test"
	"github/chapool/go-keyring/internal/types"
	"github/chapool/go-keyring/internal/wallet"
	"github/chapool/go-keyring/internal/wallet/network"
)

const gwei = 1_000_000_000

type fakeNetwork struct {
	chainID *big.Int
	nonce   uint64
	balance *big.Int
	sendErr error

	estimates []ethereum.CallMsg
	sent      []*gethtypes.Transaction
}

var _ network.Client = (*fakeNetwork)(nil)

func (f *fakeNetwork) ChainID(_ context.Context) (*big.Int, error) {
	return f.chainID, nil
}

func (f *fakeNetwork) EstimateFee(_ context.Context, msg ethereum.CallMsg) (*network.FeeEstimate, error) {
	f.estimates = append(f.estimates, msg)

	gas := msg.Gas
	if gas == 0 {
		gas = 21000
	}
	maxFee := big.NewInt(21 * gwei)

	return &network.FeeEstimate{
		GasLimit:             gas,
		BaseFee:              big.NewInt(10 * gwei),
		MaxPriorityFeePerGas: big.NewInt(1 * gwei),
		MaxFeePerGas:         maxFee,
		Total:                new(big.Int).Mul(maxFee, new(big.Int).SetUint64(gas)),
	}, nil
}

func (f *fakeNetwork) PendingNonceAt(_ context.Context, _ common.Address) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeNetwork) SendTransaction(_ context.Context, tx *gethtypes.Transaction) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, tx)

	return nil
}

func (f *fakeNetwork) Balance(_ context.Context, _ common.Address) (*big.Int, error) {
	return f.balance, nil
}

// withRestoredServer runs closure against a server whose vault was restored from the
// fixture mnemonic.
func withRestoredServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()

	test.WithTestServer(t, func(s *api.Server) {
		_, err := s.Keyring.CreateNewVaultAndRestore(t.Context(), test.Password, test.Mnemonic)
		require.NoError(t, err)

		closure(s)
	})
}

// withNetworkServer replaces the network and the controller of a restored server with
// ones talking to net.
func withNetworkServer(t *testing.T, net *fakeNetwork, closure func(s *api.Server)) {
	t.Helper()

	test.WithTestServer(t, func(s *api.Server) {
		s.Network = net
		s.Keyring = test.NewTestController(t, wallet.Config{Network: net, Metrics: s.Metrics})

		_, err := s.Keyring.CreateNewVaultAndRestore(t.Context(), test.Password, test.Mnemonic)
		require.NoError(t, err)

		closure(s)
	})
}

func requireHTTPError(t *testing.T, res *httptest.ResponseRecorder, code int, errorType string) {
	t.Helper()

	require.Equal(t, code, res.Result().StatusCode, res.Body.String())

	var body types.PublicHTTPError
	test.ParseResponseBody(t, res, &body)
	assert.Equal(t, int64(code), swag.Int64Value(body.Code))
	assert.Equal(t, errorType, swag.StringValue(body.Type))
}

func requireState(t *testing.T, res *httptest.ResponseRecorder, code int) types.KeyringState {
	t.Helper()

	require.Equal(t, code, res.Result().StatusCode, res.Body.String())

	var state types.KeyringState
	test.ParseResponseAndValidate(t, res, &state)

	return state
}
