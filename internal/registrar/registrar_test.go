package registrar

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GNSR-Network/registry_core/internal/config"
	"github.com/GNSR-Network/registry_core/internal/contract"
)

const (
	owner = "owner-aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	buyer = "buyer-bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

var antTxID = strings.Repeat("c", contract.TxIDLength)

func newState(t *testing.T, balance int64) *contract.State {
	t.Helper()
	s := config.InitialState(owner)
	s.Balances[buyer] = balance
	return s
}

func TestValidateName(t *testing.T) {
	valid := []string{"a", "microsoft", "my-name-1", strings.Repeat("x", MaxNameLength)}
	for _, name := range valid {
		assert.NoError(t, ValidateName(name), name)
	}

	invalid := []string{"", "-leading", "trailing-", "has.dot", "has_underscore",
		"has space", strings.Repeat("x", MaxNameLength+1)}
	for _, name := range invalid {
		assert.Error(t, ValidateName(name), name)
	}
}

// addTier installs an owner-created tier at slot 3 of the catalog.
func addTier(s *contract.State, id string, fee, maxSubdomains int64) {
	s.Tiers.History = append(s.Tiers.History, contract.Tier{
		ID:       id,
		Fee:      fee,
		Settings: contract.TierSettings{MaxSubdomains: maxSubdomains},
	})
	s.Tiers.Current[3] = id
}

func TestAnnualFee(t *testing.T) {
	table := config.DefaultFees()

	t.Run("baseline tiers charge the schedule verbatim", func(t *testing.T) {
		annual, err := AnnualFee(table, "microsoft", contract.Tier{Fee: contract.TierFeeBaseline})

		require.NoError(t, err)
		assert.Equal(t, int64(1_000_000), annual)
	})

	t.Run("non-baseline tiers scale the schedule", func(t *testing.T) {
		annual, err := AnnualFee(table, "microsoft", contract.Tier{Fee: 2_000_000})

		require.NoError(t, err)
		assert.Equal(t, int64(2_000_000), annual)
	})

	t.Run("scaling rounds half up", func(t *testing.T) {
		// A 20-char name has a base fee of 5; 5 × 1.1 = 5.5 rounds to 6.
		name := strings.Repeat("x", 20)

		annual, err := AnnualFee(table, name, contract.Tier{Fee: 1_100_000})

		require.NoError(t, err)
		assert.Equal(t, int64(6), annual)
	})

	t.Run("rejects a product that cannot be represented", func(t *testing.T) {
		_, err := AnnualFee(table, "a", contract.Tier{Fee: 4_000_000_000})

		assert.Equal(t, contract.KindValidation, contract.KindOf(err))
	})
}

func TestLeasePriceOverflow(t *testing.T) {
	_, err := LeasePrice(math.MaxInt64/2, 3)
	assert.Equal(t, contract.KindValidation, contract.KindOf(err))

	_, err = PermabuyPrice(math.MaxInt64 / contract.PermabuyLeaseYears * 2)
	assert.Equal(t, contract.KindValidation, contract.KindOf(err))
}

func TestBuy(t *testing.T) {
	const now int64 = 10_000_000

	t.Run("charges the published price exactly", func(t *testing.T) {
		s := newState(t, 6_000_000)

		err := Buy(s, buyer, BuyParams{
			Name:         "microsoft",
			ContractTxID: antTxID,
			Years:        6,
			Tier:         2,
		}, now, "")

		require.NoError(t, err)
		assert.Equal(t, int64(0), s.Balances[buyer])

		record := s.Records["microsoft"]
		assert.Equal(t, config.GenesisTier2ID, record.Tier)
		assert.Equal(t, antTxID, record.ContractTxID)
		assert.Equal(t, contract.RecordTypeLease, record.Type)
		assert.Equal(t, now+6*contract.SecondsInYear, record.EndTimestamp)
		assert.Equal(t, int64(1_000), record.MaxSubdomains)
	})

	t.Run("lower-cases the stored name", func(t *testing.T) {
		s := newState(t, 10_000_000)

		require.NoError(t, Buy(s, buyer, BuyParams{
			Name: "MicroSoft", ContractTxID: antTxID, Years: 1,
		}, now, ""))

		assert.Contains(t, s.Records, "microsoft")
		assert.NotContains(t, s.Records, "MicroSoft")
	})

	t.Run("defaults to the lowest active tier", func(t *testing.T) {
		s := newState(t, 10_000_000)

		require.NoError(t, Buy(s, buyer, BuyParams{
			Name: "microsoft", ContractTxID: antTxID, Years: 1,
		}, now, ""))

		assert.Equal(t, config.GenesisTier1ID, s.Records["microsoft"].Tier)
	})

	t.Run("substitutes the interaction id for atomic", func(t *testing.T) {
		s := newState(t, 10_000_000)
		interactionID := strings.Repeat("d", contract.TxIDLength)

		require.NoError(t, Buy(s, buyer, BuyParams{
			Name: "microsoft", ContractTxID: contract.AtomicTxID, Years: 1,
		}, now, interactionID))

		assert.Equal(t, interactionID, s.Records["microsoft"].ContractTxID)
	})

	t.Run("permabuy charges ten years and never expires", func(t *testing.T) {
		s := newState(t, 10_000_000)

		err := Buy(s, buyer, BuyParams{
			Name: "microsoft", ContractTxID: antTxID,
			Type: contract.RecordTypePermabuy,
		}, now, "")

		require.NoError(t, err)
		assert.Equal(t, int64(0), s.Balances[buyer])

		record := s.Records["microsoft"]
		assert.Equal(t, contract.RecordTypePermabuy, record.Type)
		assert.Zero(t, record.EndTimestamp)
		assert.False(t, record.Expired(1<<50))
	})

	t.Run("rejects an active name", func(t *testing.T) {
		s := newState(t, 20_000_000)
		require.NoError(t, Buy(s, buyer, BuyParams{
			Name: "microsoft", ContractTxID: antTxID, Years: 1,
		}, now, ""))

		err := Buy(s, buyer, BuyParams{
			Name: "Microsoft", ContractTxID: antTxID, Years: 1,
		}, now+contract.SecondsInYear-1, "")

		require.Error(t, err)
		assert.Equal(t, contract.KindStateConflict, contract.KindOf(err))
		assert.EqualError(t, err, "This name already exists in an active lease")
	})

	t.Run("rejects a name still inside its grace period", func(t *testing.T) {
		s := newState(t, 20_000_000)
		require.NoError(t, Buy(s, buyer, BuyParams{
			Name: "microsoft", ContractTxID: antTxID, Years: 1,
		}, now, ""))

		graceEnd := now + contract.SecondsInYear + contract.GracePeriodSeconds
		err := Buy(s, buyer, BuyParams{
			Name: "microsoft", ContractTxID: antTxID, Years: 1,
		}, graceEnd-1, "")

		assert.Equal(t, contract.KindStateConflict, contract.KindOf(err))
	})

	t.Run("overwrites a fully expired name", func(t *testing.T) {
		s := newState(t, 20_000_000)
		require.NoError(t, Buy(s, buyer, BuyParams{
			Name: "microsoft", ContractTxID: antTxID, Years: 1,
		}, now, ""))

		graceEnd := now + contract.SecondsInYear + contract.GracePeriodSeconds
		newTxID := strings.Repeat("e", contract.TxIDLength)
		err := Buy(s, buyer, BuyParams{
			Name: "microsoft", ContractTxID: newTxID, Years: 2,
		}, graceEnd, "")

		require.NoError(t, err)
		record := s.Records["microsoft"]
		assert.Equal(t, newTxID, record.ContractTxID)
		assert.Equal(t, graceEnd+2*contract.SecondsInYear, record.EndTimestamp)
	})

	t.Run("charges a scaled fee through a non-baseline tier", func(t *testing.T) {
		s := newState(t, 20_000_000)
		tierID := strings.Repeat("g", contract.TxIDLength)
		addTier(s, tierID, 2_000_000, 50_000)

		err := Buy(s, buyer, BuyParams{
			Name: "microsoft", ContractTxID: antTxID, Years: 6, Tier: 3,
		}, now, "")

		require.NoError(t, err)
		assert.Equal(t, int64(20_000_000-12_000_000), s.Balances[buyer])

		record := s.Records["microsoft"]
		assert.Equal(t, tierID, record.Tier)
		assert.Equal(t, int64(50_000), record.MaxSubdomains)
	})

	t.Run("rejects a purchase whose price overflows", func(t *testing.T) {
		s := newState(t, 20_000_000)
		tierID := strings.Repeat("h", contract.TxIDLength)
		addTier(s, tierID, 4_000_000_000, 50_000)

		err := Buy(s, buyer, BuyParams{
			Name: "a", ContractTxID: antTxID, Years: 1, Tier: 3,
		}, now, "")

		require.Error(t, err)
		assert.Equal(t, contract.KindValidation, contract.KindOf(err))
		assert.Equal(t, int64(20_000_000), s.Balances[buyer])
		assert.NotContains(t, s.Records, "a")
	})

	t.Run("fails without mutation when the buyer cannot pay", func(t *testing.T) {
		s := newState(t, 5_999_999)

		err := Buy(s, buyer, BuyParams{
			Name: "microsoft", ContractTxID: antTxID, Years: 6, Tier: 2,
		}, now, "")

		require.Error(t, err)
		assert.Equal(t, contract.KindInsufficientFunds, contract.KindOf(err))
		assert.Equal(t, int64(5_999_999), s.Balances[buyer])
		assert.NotContains(t, s.Records, "microsoft")
	})

	t.Run("validates input before touching state", func(t *testing.T) {
		s := newState(t, 10_000_000)

		cases := []BuyParams{
			{Name: "bad_name", ContractTxID: antTxID, Years: 1},
			{Name: "microsoft", ContractTxID: "short", Years: 1},
			{Name: "microsoft", ContractTxID: antTxID, Years: 0},
			{Name: "microsoft", ContractTxID: antTxID, Years: contract.MaxYears + 1},
			{Name: "microsoft", ContractTxID: antTxID, Years: 1, Tier: 4},
			{Name: "microsoft", ContractTxID: antTxID, Years: 1, Type: "rent"},
		}
		for _, p := range cases {
			err := Buy(s, buyer, p, now, "")
			assert.Equal(t, contract.KindValidation, contract.KindOf(err), "%+v", p)
		}
		assert.Empty(t, s.Records)
		assert.Equal(t, int64(10_000_000), s.Balances[buyer])
	})
}

func TestExtend(t *testing.T) {
	const now int64 = 10_000_000

	setup := func(t *testing.T) *contract.State {
		s := newState(t, 20_000_000)
		require.NoError(t, Buy(s, buyer, BuyParams{
			Name: "microsoft", ContractTxID: antTxID, Years: 1, Tier: 2,
		}, now, ""))
		return s
	}

	t.Run("extends at today's fee for the record's tier", func(t *testing.T) {
		s := setup(t)
		before := s.Balances[buyer]
		end := s.Records["microsoft"].EndTimestamp

		require.NoError(t, Extend(s, buyer, "Microsoft", 3, now+100))

		assert.Equal(t, before-3_000_000, s.Balances[buyer])
		assert.Equal(t, end+3*contract.SecondsInYear, s.Records["microsoft"].EndTimestamp)
	})

	t.Run("extends during the grace period", func(t *testing.T) {
		s := setup(t)
		inGrace := now + contract.SecondsInYear + 10

		assert.NoError(t, Extend(s, buyer, "microsoft", 1, inGrace))
	})

	t.Run("rejects an unknown name", func(t *testing.T) {
		s := setup(t)

		err := Extend(s, buyer, "unknown", 1, now)

		assert.Equal(t, contract.KindNotFound, contract.KindOf(err))
		assert.EqualError(t, err, "This name does not exist")
	})

	t.Run("rejects a fully expired name", func(t *testing.T) {
		s := setup(t)
		expired := now + contract.SecondsInYear + contract.GracePeriodSeconds

		err := Extend(s, buyer, "microsoft", 1, expired)

		assert.Equal(t, contract.KindStateConflict, contract.KindOf(err))
	})

	t.Run("rejects extending a permabuy", func(t *testing.T) {
		s := newState(t, 20_000_000)
		require.NoError(t, Buy(s, buyer, BuyParams{
			Name: "microsoft", ContractTxID: antTxID,
			Type: contract.RecordTypePermabuy,
		}, now, ""))

		err := Extend(s, buyer, "microsoft", 1, now)

		assert.Equal(t, contract.KindValidation, contract.KindOf(err))
	})
}

func TestRemove(t *testing.T) {
	const now int64 = 10_000_000

	setup := func(t *testing.T) *contract.State {
		s := newState(t, 20_000_000)
		require.NoError(t, Buy(s, buyer, BuyParams{
			Name: "microsoft", ContractTxID: antTxID, Years: 1,
		}, now, ""))
		return s
	}

	t.Run("owner removes any record without refund", func(t *testing.T) {
		s := setup(t)
		before := s.Balances[buyer]

		require.NoError(t, Remove(s, owner, "Microsoft"))

		assert.NotContains(t, s.Records, "microsoft")
		assert.Equal(t, before, s.Balances[buyer])
	})

	t.Run("non-owner cannot remove, even the purchaser", func(t *testing.T) {
		s := setup(t)

		err := Remove(s, buyer, "microsoft")

		assert.Equal(t, contract.KindAuthorization, contract.KindOf(err))
		assert.Contains(t, s.Records, "microsoft")
	})

	t.Run("unknown name fails with not found", func(t *testing.T) {
		s := setup(t)

		err := Remove(s, owner, "unknown")

		assert.Equal(t, contract.KindNotFound, contract.KindOf(err))
	})
}

func TestGetRecord(t *testing.T) {
	const now int64 = 10_000_000
	s := newState(t, 20_000_000)
	require.NoError(t, Buy(s, buyer, BuyParams{
		Name: "microsoft", ContractTxID: antTxID, Years: 1, Tier: 3,
	}, now, ""))

	view, err := GetRecord(s, "Microsoft")
	require.NoError(t, err)
	assert.Equal(t, "microsoft", view.Name)
	assert.Equal(t, config.GenesisTier3ID, view.Tier.ID)
	assert.Equal(t, int64(10_000), view.MaxSubdomains)

	_, err = GetRecord(s, "unknown")
	assert.Equal(t, contract.KindNotFound, contract.KindOf(err))
	assert.EqualError(t, err, "This name does not exist")
}
