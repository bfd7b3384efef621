package contract

// Clone returns a deep copy of the state. The engine applies every write
// interaction to a clone and publishes it only on success, so a rejection
// can never leave a partial mutation behind.
func (s *State) Clone() *State {
	out := *s

	out.Balances = make(map[string]int64, len(s.Balances))
	for addr, bal := range s.Balances {
		out.Balances[addr] = bal
	}

	out.Records = make(map[string]NameRecord, len(s.Records))
	for name, rec := range s.Records {
		out.Records[name] = rec
	}

	out.Gateways = make(map[string]Gateway, len(s.Gateways))
	for addr, gw := range s.Gateways {
		out.Gateways[addr] = gw.Clone()
	}

	out.Fees = make(map[string]int64, len(s.Fees))
	for bucket, fee := range s.Fees {
		out.Fees[bucket] = fee
	}

	out.Tiers = Tiers{
		History: append([]Tier(nil), s.Tiers.History...),
		Current: make(map[int]string, len(s.Tiers.Current)),
	}
	for slot, id := range s.Tiers.Current {
		out.Tiers.Current[slot] = id
	}

	out.ApprovedANTSourceCodeTxs = append([]string(nil), s.ApprovedANTSourceCodeTxs...)

	return &out
}

// Clone returns a deep copy of the gateway, sharing no vaults, delegate
// entries, or allow-list backing with the receiver.
func (g Gateway) Clone() Gateway {
	out := g
	out.Vaults = append([]Vault(nil), g.Vaults...)
	out.Delegates = make(map[string][]Vault, len(g.Delegates))
	for addr, vaults := range g.Delegates {
		out.Delegates[addr] = append([]Vault(nil), vaults...)
	}
	out.Settings.DelegateAllowList = append([]string(nil), g.Settings.DelegateAllowList...)
	return out
}
