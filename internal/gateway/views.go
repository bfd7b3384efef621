package gateway

import (
	"sort"

	"github.com/GNSR-Network/registry_core/internal/contract"
	"github.com/GNSR-Network/registry_core/internal/vaulting"
)

// Get resolves a target address to a copy of its gateway record. Views
// hand out copies so a read can never alias committed state.
func Get(s *contract.State, target string) (contract.Gateway, error) {
	gw, ok := s.Gateways[target]
	if !ok {
		return contract.Gateway{}, contract.ErrNotFound(msgNoGateway)
	}
	return gw.Clone(), nil
}

// TotalStake is the target's operator stake plus all delegated stake.
func TotalStake(s *contract.State, target string) (int64, error) {
	gw, ok := s.Gateways[target]
	if !ok {
		return 0, contract.ErrNotFound(msgNoGateway)
	}
	return gw.OperatorStake + gw.DelegatedStake, nil
}

// Registry returns a copy of the full gateway directory keyed by operator
// address.
func Registry(s *contract.State) map[string]contract.Gateway {
	out := make(map[string]contract.Gateway, len(s.Gateways))
	for addr, gw := range s.Gateways {
		out[addr] = gw.Clone()
	}
	return out
}

// RankedGateway is one ranked registry row.
type RankedGateway struct {
	Address    string           `json:"address"`
	TotalStake int64            `json:"totalStake"`
	Gateway    contract.Gateway `json:"gateway"`
}

// RankedRegistry lists joined gateways by descending total stake. Hidden
// and leaving operators are excluded. Ties break on address so the
// ordering is stable across hosts.
func RankedRegistry(s *contract.State) []RankedGateway {
	ranked := make([]RankedGateway, 0, len(s.Gateways))
	for addr, gw := range s.Gateways {
		if gw.Status != contract.StatusJoined {
			continue
		}
		ranked = append(ranked, RankedGateway{
			Address:    addr,
			TotalStake: gw.OperatorStake + gw.DelegatedStake,
			Gateway:    gw.Clone(),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalStake != ranked[j].TotalStake {
			return ranked[i].TotalStake > ranked[j].TotalStake
		}
		return ranked[i].Address < ranked[j].Address
	})
	return ranked
}

// LockedStake sums every vault balance custodied by the target gateway,
// operator and delegates alike.
func LockedStake(gw contract.Gateway) int64 {
	total := vaulting.TotalBalance(gw.Vaults)
	for _, vaults := range gw.Delegates {
		total += vaulting.TotalBalance(vaults)
	}
	return total
}
