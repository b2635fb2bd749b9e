package views

import "lendex/core"

// Position position view, shares and their values in underlying units
type Position struct {
	Market  string              `json:"market"`
	Account string              `json:"account"`
	Shares  core.TokensBalance  `json:"shares"`
	Values  *core.TokensBalance `json:"values,omitempty"`
}

// PositionView position view
func PositionView(p *core.Position, values *core.TokensBalance) Position {
	return Position{
		Market:  p.Market.Key(),
		Account: p.Account,
		Shares:  core.TokensBalance{Ltokens: p.Ltokens, Btokens: p.Btokens},
		Values:  values,
	}
}
