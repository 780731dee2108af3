// Package staking sizes positions with fractional Kelly against an explicit bankroll.
package staking

// BankrollState is passed into and returned from every allocation call.
// Peak only rises; balance never goes negative.
type BankrollState struct {
	Balance     float64 `json:"balance"`
	PeakBalance float64 `json:"peak_balance"`
}

// NewBankroll starts a bankroll at its peak
func NewBankroll(balance float64) BankrollState {
	return BankrollState{Balance: balance, PeakBalance: balance}
}

// Drawdown returns (peak - balance) / peak
func (s BankrollState) Drawdown() float64 {
	if s.PeakBalance <= 0 {
		return 0
	}
	dd := (s.PeakBalance - s.Balance) / s.PeakBalance
	if dd < 0 {
		return 0
	}
	return dd
}

// Spend removes a stake, never below zero
func (s BankrollState) Spend(stake float64) BankrollState {
	if stake <= 0 {
		return s
	}
	if stake > s.Balance {
		stake = s.Balance
	}
	s.Balance -= stake
	return s
}

// Settle applies a realized profit or loss and raises the peak when exceeded
func (s BankrollState) Settle(pnl float64) BankrollState {
	s.Balance += pnl
	if s.Balance < 0 {
		s.Balance = 0
	}
	if s.Balance > s.PeakBalance {
		s.PeakBalance = s.Balance
	}
	return s
}
