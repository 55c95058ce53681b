package command

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github/chapool/go-keyring/internal/wallet"
	"github/chapool/go-keyring/internal/wallet/keyring/hd"
)

// PrintSeedPhrase writes the seed phrase of the first HD keyring of c to w. It is the
// only time a freshly generated seed phrase is shown.
//
//nolint:forbidigo // the seed phrase has to reach the operator
func PrintSeedPhrase(w io.Writer, c *wallet.Controller) error {
	keyrings := c.GetKeyringsByType(hd.Type)
	if len(keyrings) == 0 {
		return errors.Wrap(wallet.ErrKeyringNotFound, "no HD keyring")
	}

	kr, ok := keyrings[0].(*hd.Keyring)
	if !ok {
		return errors.Errorf("unexpected HD keyring implementation %T", keyrings[0])
	}

	fmt.Fprintln(w, "Write down this seed phrase and keep it safe. It restores all derived accounts:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  "+kr.Mnemonic())
	fmt.Fprintln(w)

	return nil
}
