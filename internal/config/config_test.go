package config

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GNSR-Network/registry_core/internal/contract"
	"github.com/GNSR-Network/registry_core/internal/fees"
)

func TestDefaultFees(t *testing.T) {
	table := DefaultFees()

	require.NoError(t, fees.Validate(table))

	// Spot-check the published schedule at both ends and the midrange.
	assert.Equal(t, int64(5_000_000_000), table["1"])
	assert.Equal(t, int64(1_000_000), table["9"])
	assert.Equal(t, int64(125_000), table["19"])
	for bucket := 20; bucket <= 32; bucket++ {
		assert.Equal(t, int64(5), table[strconv.Itoa(bucket)])
	}
}

func TestDefaultTiers(t *testing.T) {
	tiers := DefaultTiers()

	require.Len(t, tiers.History, 3)
	require.Len(t, tiers.Current, 3)

	for slot := 1; slot <= 3; slot++ {
		tier, err := fees.CurrentTier(tiers, slot)
		require.NoError(t, err)
		assert.Equal(t, contract.TierFeeBaseline, tier.Fee)
		assert.True(t, contract.ValidTxID(tier.ID))
	}

	one, _ := fees.CurrentTier(tiers, 1)
	three, _ := fees.CurrentTier(tiers, 3)
	assert.Equal(t, int64(100), one.Settings.MaxSubdomains)
	assert.Equal(t, int64(10_000), three.Settings.MaxSubdomains)
}

func TestInitialState(t *testing.T) {
	s := InitialState("owner-address")

	assert.Equal(t, "owner-address", s.Owner)
	assert.True(t, s.CanEvolve)
	assert.NotNil(t, s.Balances)
	assert.NotNil(t, s.Records)
	assert.NotNil(t, s.Gateways)
	assert.NotNil(t, s.ApprovedANTSourceCodeTxs)
	assert.NoError(t, ValidateSettings(s.Settings.Registry))
}

func TestLoad(t *testing.T) {
	t.Run("reads and validates a settings file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
registry:
  minLockLength: 10
  maxLockLength: 100
  minNetworkJoinStakeAmount: 500
  minGatewayJoinLength: 20
  gatewayLeaveLength: 30
  operatorStakeWithdrawLength: 40
  minDelegatedStakeAmount: 50
  delegatedStakeWithdrawLength: 60
`), 0o600))

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, int64(10), cfg.Registry.MinLockLength)
		assert.Equal(t, int64(500), cfg.Registry.MinNetworkJoinStakeAmount)
	})

	t.Run("rejects an invalid file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
registry:
  minLockLength: -1
`), 0o600))

		_, err := Load(path)

		assert.Error(t, err)
	})

	t.Run("fails on a missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}

func TestLoadOrDefault(t *testing.T) {
	cfg := LoadOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Equal(t, DefaultRegistrySettings(), cfg.Registry)
}

func TestValidateSettings(t *testing.T) {
	good := DefaultRegistrySettings()
	assert.NoError(t, ValidateSettings(good))

	bad := good
	bad.GatewayLeaveLength = 0
	assert.Error(t, ValidateSettings(bad))

	bad = good
	bad.MaxLockLength = good.MinLockLength - 1
	assert.Error(t, ValidateSettings(bad))
}
