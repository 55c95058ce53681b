package address

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// DefaultHDPath is the BIP44 parent path used for EVM accounts. Account i lives at DefaultHDPath/i.
const DefaultHDPath = "m/44'/60'/0'/0"

var ErrInvalidAddress = errors.New("invalid address")

// Normalize renders an address in the canonical form used for every comparison:
// lower-case hex with a 0x prefix. Checksummed and unprefixed input map to the same value.
func Normalize(addr string) string {
	addr = strings.ToLower(strings.TrimSpace(addr))
	if !strings.HasPrefix(addr, "0x") {
		addr = "0x" + addr
	}

	return addr
}

// Hex returns the normalized form of a decoded address.
func Hex(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}

// Parse decodes a 20 byte hex address given with or without a 0x prefix.
func Parse(addr string) (common.Address, error) {
	normalized := Normalize(addr)
	if !common.IsHexAddress(normalized) {
		return common.Address{}, errors.Wrapf(ErrInvalidAddress, "%q", addr)
	}

	return common.HexToAddress(normalized), nil
}

// NormalizeAll normalizes every address, keeping order.
func NormalizeAll(addrs []common.Address) []string {
	res := make([]string, 0, len(addrs))
	for _, a := range addrs {
		res = append(res, Hex(a))
	}

	return res
}

// Path gets the BIP44 path of the account at index below the given parent path.
// Format: m/44'/60'/0'/0/{index}
func Path(parent string, index int) string {
	return fmt.Sprintf("%s/%d", strings.TrimSuffix(parent, "/"), index)
}
