package wallet

// EventKind names a notification emitted by the Controller.
type EventKind string

const (
	EventUnlocked     EventKind = "unlocked"
	EventLock         EventKind = "lock"
	EventVaultCreated EventKind = "vaultCreated"
	EventNewAccount   EventKind = "newAccount"
	EventUpdate       EventKind = "update"
)

// EventKinds lists every kind a subscriber can register for.
var EventKinds = []EventKind{EventUnlocked, EventLock, EventVaultCreated, EventNewAccount, EventUpdate}

// Event is delivered to subscribers. Address is set for vaultCreated and newAccount,
// State for update.
type Event struct {
	Kind    EventKind
	Address string
	State   *State
}

// DisplayRecord is the redacted, non-secret projection of one live keyring.
type DisplayRecord struct {
	Type     string   `json:"type"`
	Accounts []string `json:"accounts"`
}

// State is the display store exposed to observers. It never contains secrets.
type State struct {
	IsUnlocked   bool            `json:"isUnlocked"`
	KeyringTypes []string        `json:"keyringTypes"`
	Keyrings     []DisplayRecord `json:"keyrings"`
}

func (s State) clone() State {
	res := State{
		IsUnlocked:   s.IsUnlocked,
		KeyringTypes: append([]string{}, s.KeyringTypes...),
		Keyrings:     make([]DisplayRecord, 0, len(s.Keyrings)),
	}

	for _, kr := range s.Keyrings {
		res.Keyrings = append(res.Keyrings, DisplayRecord{
			Type:     kr.Type,
			Accounts: append([]string{}, kr.Accounts...),
		})
	}

	return res
}

// Recorder receives controller metrics. metrics.Service implements it.
type Recorder interface {
	ObservePersist(err error)
	ObserveSign(kind string, err error)
	SetAccounts(n int)
	SetUnlocked(unlocked bool)
}

type noopRecorder struct{}

func (noopRecorder) ObservePersist(error)      {}
func (noopRecorder) ObserveSign(string, error) {}
func (noopRecorder) SetAccounts(int)           {}
func (noopRecorder) SetUnlocked(bool)          {}
