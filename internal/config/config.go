// Package config builds the governed defaults of the registry: the fee
// schedule, the tier catalog, the network settings, and complete initial
// states. Hosts may override settings from a YAML file; everything is
// validated before use.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/GNSR-Network/registry_core/internal/contract"
)

// defaultFeeTable is the published base annual price per name length.
var defaultFeeTable = [fee32 + 1]int64{
	0, // bucket numbering starts at 1
	5_000_000_000,
	1_406_250_000,
	468_750_000,
	156_250_000,
	62_500_000,
	25_000_000,
	10_000_000,
	5_000_000,
	1_000_000,
	500_000,
	450_000,
	400_000,
	350_000,
	300_000,
	250_000,
	200_000,
	175_000,
	150_000,
	125_000,
	5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5,
}

const fee32 = 32

// Genesis tier identifiers. Production catalogs append tiers under host
// transaction ids; the genesis entries use fixed ids so every executor
// derives the same initial state.
const (
	GenesisTier1ID = "kOIpuNJbSHsmzKjHXdzf4FJJJZyrZRF1g4ak4sVpYFM"
	GenesisTier2ID = "QoBSzamJz52JDtf1qQyRrWGvAzrC1VPLhSksElqsCCg"
	GenesisTier3ID = "zxqZkhzzzzHYM5dzcVSUSxOkAnLmcqiqFJyVpkkkYcA"
)

// DefaultFees returns the published 32-bucket fee schedule.
func DefaultFees() map[string]int64 {
	fees := make(map[string]int64, fee32)
	for bucket := 1; bucket <= fee32; bucket++ {
		fees[strconv.Itoa(bucket)] = defaultFeeTable[bucket]
	}
	return fees
}

// DefaultTiers returns the genesis tier catalog: three tiers at the
// baseline annual fee, differing in the subdomain allowance they grant.
func DefaultTiers() contract.Tiers {
	return contract.Tiers{
		History: []contract.Tier{
			{ID: GenesisTier1ID, Fee: contract.TierFeeBaseline, Settings: contract.TierSettings{MaxSubdomains: 100}},
			{ID: GenesisTier2ID, Fee: contract.TierFeeBaseline, Settings: contract.TierSettings{MaxSubdomains: 1_000}},
			{ID: GenesisTier3ID, Fee: contract.TierFeeBaseline, Settings: contract.TierSettings{MaxSubdomains: 10_000}},
		},
		Current: map[int]string{
			1: GenesisTier1ID,
			2: GenesisTier2ID,
			3: GenesisTier3ID,
		},
	}
}

// DefaultRegistrySettings returns the mainnet network constants.
func DefaultRegistrySettings() contract.RegistrySettings {
	return contract.RegistrySettings{
		MinLockLength:                720,
		MaxLockLength:                720 * 365 * 3,
		MinNetworkJoinStakeAmount:    5_000,
		MinGatewayJoinLength:         720,
		GatewayLeaveLength:           3_600,
		OperatorStakeWithdrawLength:  3_600,
		MinDelegatedStakeAmount:      100,
		DelegatedStakeWithdrawLength: 3_600,
	}
}

// InitialState assembles a complete genesis state owned by owner.
func InitialState(owner string) *contract.State {
	return &contract.State{
		Ticker:                   "GNSR",
		Name:                     "Gateway Name System Registry",
		Owner:                    owner,
		CanEvolve:                true,
		Balances:                 map[string]int64{},
		Records:                  map[string]contract.NameRecord{},
		Gateways:                 map[string]contract.Gateway{},
		Fees:                     DefaultFees(),
		Tiers:                    DefaultTiers(),
		ApprovedANTSourceCodeTxs: []string{},
		Settings:                 Settings{Registry: DefaultRegistrySettings()}.toContract(),
	}
}

// Settings mirrors contract.Settings for YAML loading.
type Settings struct {
	Registry contract.RegistrySettings `yaml:"registry"`
}

func (s Settings) toContract() contract.Settings {
	return contract.Settings{Registry: s.Registry}
}

// Load reads registry settings from a YAML file and validates them.
func Load(path string) (contract.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return contract.Settings{}, fmt.Errorf("failed to read settings file: %w", err)
	}
	var cfg Settings
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return contract.Settings{}, fmt.Errorf("failed to parse settings file: %w", err)
	}
	out := cfg.toContract()
	if err := ValidateSettings(out.Registry); err != nil {
		return contract.Settings{}, err
	}
	return out, nil
}

// LoadOrDefault loads settings from path, falling back to the defaults
// when the file does not exist.
func LoadOrDefault(path string) contract.Settings {
	cfg, err := Load(path)
	if err != nil {
		return contract.Settings{Registry: DefaultRegistrySettings()}
	}
	return cfg
}

// ValidateSettings checks that every network constant is usable.
func ValidateSettings(r contract.RegistrySettings) error {
	checks := []struct {
		name  string
		value int64
	}{
		{"minLockLength", r.MinLockLength},
		{"maxLockLength", r.MaxLockLength},
		{"minNetworkJoinStakeAmount", r.MinNetworkJoinStakeAmount},
		{"minGatewayJoinLength", r.MinGatewayJoinLength},
		{"gatewayLeaveLength", r.GatewayLeaveLength},
		{"operatorStakeWithdrawLength", r.OperatorStakeWithdrawLength},
		{"minDelegatedStakeAmount", r.MinDelegatedStakeAmount},
		{"delegatedStakeWithdrawLength", r.DelegatedStakeWithdrawLength},
	}
	for _, c := range checks {
		if c.value <= 0 {
			return fmt.Errorf("settings: %s must be positive, got %d", c.name, c.value)
		}
	}
	if r.MaxLockLength < r.MinLockLength {
		return fmt.Errorf("settings: maxLockLength %d is below minLockLength %d",
			r.MaxLockLength, r.MinLockLength)
	}
	return nil
}
