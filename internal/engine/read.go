package engine

import (
	"sort"

	"github.com/tidwall/gjson"

	"github.com/GNSR-Network/registry_core/internal/contract"
	"github.com/GNSR-Network/registry_core/internal/fees"
	"github.com/GNSR-Network/registry_core/internal/gateway"
	"github.com/GNSR-Network/registry_core/internal/registrar"
)

// readFunc resolves a query over the current state without mutating it.
type readFunc func(s *contract.State, in contract.Interaction) (any, error)

var readers = map[string]readFunc{
	"balance":               readBalance,
	"getRecord":             readRecord,
	"getTier":               readTier,
	"getActiveTiers":        readActiveTiers,
	"gateway":               readGateway,
	"gatewayTotalStake":     readGatewayTotalStake,
	"gatewayRegistry":       readGatewayRegistry,
	"rankedGatewayRegistry": readRankedGatewayRegistry,
}

// Read resolves a read-only query against the committed state. Queries
// never mutate; a query for an absent target fails with a not-found
// rejection and an unknown tag fails closed like a write would.
func (e *Engine) Read(in contract.Interaction) (any, error) {
	function := gjson.GetBytes(in.Input, "function").String()
	reader, ok := readers[function]
	if !ok {
		return nil, contract.ErrValidation("unknown function %q", function)
	}
	return reader(e.state, in)
}

// BalanceView is the balance query result.
type BalanceView struct {
	Target  string `json:"target"`
	Ticker  string `json:"ticker"`
	Balance int64  `json:"balance"`
}

func readBalance(s *contract.State, in contract.Interaction) (any, error) {
	var p struct {
		functionTag
		Target string `json:"target"`
	}
	if err := decodeInput(in.Input, &p); err != nil {
		return nil, err
	}
	target := p.Target
	if target == "" {
		target = in.Caller
	}
	return BalanceView{
		Target:  target,
		Ticker:  s.Ticker,
		Balance: s.Balances[target],
	}, nil
}

func readRecord(s *contract.State, in contract.Interaction) (any, error) {
	var p struct {
		functionTag
		Name string `json:"name"`
	}
	if err := decodeInput(in.Input, &p); err != nil {
		return nil, err
	}
	return registrar.GetRecord(s, p.Name)
}

func readTier(s *contract.State, in contract.Interaction) (any, error) {
	var p struct {
		functionTag
		TierNumber int `json:"tierNumber"`
	}
	if err := decodeInput(in.Input, &p); err != nil {
		return nil, err
	}
	return fees.CurrentTier(s.Tiers, p.TierNumber)
}

func readActiveTiers(s *contract.State, in contract.Interaction) (any, error) {
	var p functionTag
	if err := decodeInput(in.Input, &p); err != nil {
		return nil, err
	}
	slots := make([]int, 0, len(s.Tiers.Current))
	for slot := range s.Tiers.Current {
		slots = append(slots, slot)
	}
	sort.Ints(slots)
	active := make([]contract.Tier, 0, len(slots))
	for _, slot := range slots {
		tier, err := fees.CurrentTier(s.Tiers, slot)
		if err != nil {
			return nil, err
		}
		active = append(active, tier)
	}
	return active, nil
}

func readGateway(s *contract.State, in contract.Interaction) (any, error) {
	var p struct {
		functionTag
		Target string `json:"target"`
	}
	if err := decodeInput(in.Input, &p); err != nil {
		return nil, err
	}
	target := p.Target
	if target == "" {
		target = in.Caller
	}
	return gateway.Get(s, target)
}

func readGatewayTotalStake(s *contract.State, in contract.Interaction) (any, error) {
	var p struct {
		functionTag
		Target string `json:"target"`
	}
	if err := decodeInput(in.Input, &p); err != nil {
		return nil, err
	}
	target := p.Target
	if target == "" {
		target = in.Caller
	}
	return gateway.TotalStake(s, target)
}

func readGatewayRegistry(s *contract.State, in contract.Interaction) (any, error) {
	var p functionTag
	if err := decodeInput(in.Input, &p); err != nil {
		return nil, err
	}
	return gateway.Registry(s), nil
}

func readRankedGatewayRegistry(s *contract.State, in contract.Interaction) (any, error) {
	var p functionTag
	if err := decodeInput(in.Input, &p); err != nil {
		return nil, err
	}
	return gateway.RankedRegistry(s), nil
}
