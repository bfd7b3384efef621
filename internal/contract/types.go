// Package contract defines the shared state model for the registry core.
//
// This is NOT a component but core infrastructure used by every component:
// the full contract state snapshot, the interaction envelope delivered by
// the host runtime, and the error taxonomy surfaced on rejections. The
// state must marshal to stable JSON because the host persists snapshots
// between interactions.
package contract

import (
	"encoding/json"
	"regexp"
)

// Record lifecycle and lease constants.
const (
	// SecondsInYear is the lease length unit for name records.
	SecondsInYear int64 = 31_536_000

	// GracePeriodSeconds is the window after a lease's endTimestamp during
	// which the name is neither purchasable by others nor removable by
	// anyone but the registry owner. Three weeks.
	GracePeriodSeconds int64 = 1_814_400

	// MaxYears bounds a single purchase or extension.
	MaxYears int64 = 200

	// PermabuyLeaseYears is the lease-equivalent charged for a permanent
	// purchase.
	PermabuyLeaseYears int64 = 10

	// TierFeeBaseline is the annual fee of the default tiers. A tier's fee
	// scales the per-length base price relative to this baseline.
	TierFeeBaseline int64 = 1_000_000

	// TxIDLength is the length of a host transaction identifier.
	TxIDLength = 43

	// AtomicTxID is the sentinel a buyer passes to bind the record to the
	// purchase interaction itself.
	AtomicTxID = "atomic"
)

var txIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{43}$`)

// ValidTxID reports whether s is a well-formed 43-character transaction
// identifier.
func ValidTxID(s string) bool {
	return txIDPattern.MatchString(s)
}

// RecordType distinguishes leased names from permanently owned ones.
type RecordType string

const (
	// RecordTypeLease is a time-limited registration.
	RecordTypeLease RecordType = "lease"

	// RecordTypePermabuy is a permanent registration; its record carries a
	// zero endTimestamp and never expires.
	RecordTypePermabuy RecordType = "permabuy"
)

// GatewayStatus is the lifecycle status of a gateway operator.
type GatewayStatus string

const (
	// StatusJoined marks an active network participant.
	StatusJoined GatewayStatus = "joined"

	// StatusLeaving marks an operator whose exit has been initiated; its
	// vaults unlock in unison at the gateway's end height.
	StatusLeaving GatewayStatus = "leaving"

	// StatusHidden keeps the operator staked but removes it from the
	// ranked registry view.
	StatusHidden GatewayStatus = "hidden"
)

// NameRecord is one registered name.
type NameRecord struct {
	Tier          string     `json:"tier"`
	ContractTxID  string     `json:"contractTxId"`
	Type          RecordType `json:"type"`
	EndTimestamp  int64      `json:"endTimestamp"`
	MaxSubdomains int64      `json:"maxSubdomains"`
}

// Expired reports whether the record's lease and grace period have both
// elapsed at the given epoch-seconds timestamp. Permabuy records never
// expire.
func (r NameRecord) Expired(now int64) bool {
	if r.Type == RecordTypePermabuy {
		return false
	}
	return now >= r.EndTimestamp+GracePeriodSeconds
}

// InGrace reports whether the record is past its lease but inside the
// grace period.
func (r NameRecord) InGrace(now int64) bool {
	if r.Type == RecordTypePermabuy {
		return false
	}
	return now >= r.EndTimestamp && now < r.EndTimestamp+GracePeriodSeconds
}

// Tier is one pricing/settings bundle. History entries are immutable once
// appended; governance repoints the current slots.
type Tier struct {
	ID       string       `json:"id"`
	Fee      int64        `json:"fee"`
	Settings TierSettings `json:"settings"`
}

// TierSettings carries the capabilities a tier grants a record.
type TierSettings struct {
	MaxSubdomains int64 `json:"maxSubdomains"`
}

// Tiers is the append-only tier catalog plus the mutable slot pointers.
type Tiers struct {
	History []Tier         `json:"history"`
	Current map[int]string `json:"current"`
}

// Vault is a time-locked balance. End == 0 means locked indefinitely until
// an unlock is initiated.
type Vault struct {
	Balance int64 `json:"balance"`
	Start   int64 `json:"start"`
	End     int64 `json:"end"`
}

// GatewaySettings is the operator-advertised endpoint description.
type GatewaySettings struct {
	Label             string   `json:"label"`
	FQDN              string   `json:"fqdn"`
	Port              int      `json:"port"`
	Protocol          string   `json:"protocol"`
	OpenDelegation    bool     `json:"openDelegation"`
	DelegateAllowList []string `json:"delegateAllowList"`
	Note              string   `json:"note"`
}

// Gateway is one operator's network participation record.
type Gateway struct {
	OperatorStake  int64              `json:"operatorStake"`
	DelegatedStake int64              `json:"delegatedStake"`
	Status         GatewayStatus      `json:"status"`
	Start          int64              `json:"start"`
	End            int64              `json:"end"`
	Vaults         []Vault            `json:"vaults"`
	Delegates      map[string][]Vault `json:"delegates"`
	Settings       GatewaySettings    `json:"settings"`
}

// RegistrySettings are the network constants governing stake custody and
// gateway lifecycle. They live inside the state so the host snapshot is
// self-describing.
type RegistrySettings struct {
	MinLockLength               int64 `json:"minLockLength" yaml:"minLockLength"`
	MaxLockLength               int64 `json:"maxLockLength" yaml:"maxLockLength"`
	MinNetworkJoinStakeAmount   int64 `json:"minNetworkJoinStakeAmount" yaml:"minNetworkJoinStakeAmount"`
	MinGatewayJoinLength        int64 `json:"minGatewayJoinLength" yaml:"minGatewayJoinLength"`
	GatewayLeaveLength          int64 `json:"gatewayLeaveLength" yaml:"gatewayLeaveLength"`
	OperatorStakeWithdrawLength int64 `json:"operatorStakeWithdrawLength" yaml:"operatorStakeWithdrawLength"`
	MinDelegatedStakeAmount     int64 `json:"minDelegatedStakeAmount" yaml:"minDelegatedStakeAmount"`
	DelegatedStakeWithdrawLength int64 `json:"delegatedStakeWithdrawLength" yaml:"delegatedStakeWithdrawLength"`
}

// Settings groups the governed constant tables carried in the state.
type Settings struct {
	Registry RegistrySettings `json:"registry" yaml:"registry"`
}

// State is the full contract state snapshot.
type State struct {
	Ticker                   string                `json:"ticker"`
	Name                     string                `json:"name"`
	Owner                    string                `json:"owner"`
	Evolve                   string                `json:"evolve"`
	CanEvolve                bool                  `json:"canEvolve"`
	Balances                 map[string]int64      `json:"balances"`
	Records                  map[string]NameRecord `json:"records"`
	Gateways                 map[string]Gateway    `json:"gateways"`
	Fees                     map[string]int64      `json:"fees"`
	Tiers                    Tiers                 `json:"tiers"`
	ApprovedANTSourceCodeTxs []string              `json:"approvedANTSourceCodeTxs"`
	Settings                 Settings              `json:"settings"`
}

// Interaction is one state-transition request delivered by the host. The
// host has already sequenced it, verified the caller's identity, and
// stamped it with the logical clock.
type Interaction struct {
	// Caller is the verified address submitting the interaction.
	Caller string `json:"callerAddress"`

	// Input is the immutable function payload, including the function tag.
	Input json.RawMessage `json:"input"`

	// Height is the monotonic non-decreasing logical clock. Interactions
	// sequenced in the same unit share a height.
	Height int64 `json:"height"`

	// Timestamp is the epoch-seconds clock of the sequencing unit.
	Timestamp int64 `json:"timestamp"`

	// ID is the host transaction identifier, when available.
	ID string `json:"id"`
}
