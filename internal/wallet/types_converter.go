package wallet

import "github/chapool/go-keyring/internal/types"

// ToTypes converts the display state to its API representation.
func (s State) ToTypes() *types.KeyringState {
	res := &types.KeyringState{
		IsUnlocked:   s.IsUnlocked,
		KeyringTypes: append([]string{}, s.KeyringTypes...),
		Keyrings:     make([]*types.KeyringItem, 0, len(s.Keyrings)),
	}

	for _, kr := range s.Keyrings {
		res.Keyrings = append(res.Keyrings, &types.KeyringItem{
			Type:     kr.Type,
			Accounts: append([]string{}, kr.Accounts...),
		})
	}

	return res
}
