package backtest

import (
	"time"

	"github.com/yourusername/sharp-edge/internal/models"
	"github.com/yourusername/sharp-edge/internal/staking"
)

// simState tracks one replay. It is local to a single Simulate call.
type simState struct {
	bankroll   staking.BankrollState
	pnls       []float64
	wins       int
	curWin     int
	curLoss    int
	longestWin int
	longestLos int
	maxDD      float64
	home       SideSplit
	away       SideSplit
	breakdown  Breakdown
	ledger     bool
	bets       []Bet
	curve      EquityCurve
}

func newSimState(start float64, ledger bool) *simState {
	s := &simState{
		bankroll: staking.NewBankroll(start),
		ledger:   ledger,
	}
	if ledger {
		s.curve = EquityCurve{{Index: 0, Value: start}}
	}
	return s
}

// settle applies a bet resolved immediately after placement
func (s *simState) settle(b Bet, at time.Time) {
	s.bankroll = s.bankroll.Spend(b.Stake).Settle(b.Stake + b.PnL)
	s.pnls = append(s.pnls, b.PnL)

	if b.Won {
		s.wins++
		s.curWin++
		s.curLoss = 0
		if s.curWin > s.longestWin {
			s.longestWin = s.curWin
		}
	} else {
		s.curLoss++
		s.curWin = 0
		if s.curLoss > s.longestLos {
			s.longestLos = s.curLoss
		}
	}

	split := &s.home
	if b.Side == models.SideAway {
		split = &s.away
	}
	split.Bets++
	split.PnL += b.PnL
	if b.Won {
		split.Wins++
	}

	s.breakdown.Add(b)

	dd := s.bankroll.Drawdown()
	if dd > s.maxDD {
		s.maxDD = dd
	}

	if s.ledger {
		b.BalanceAfter = s.bankroll.Balance
		s.bets = append(s.bets, b)
		s.curve = append(s.curve, EquityPoint{
			Index:    len(s.pnls),
			GameID:   b.GameID,
			Time:     at,
			Value:    s.bankroll.Balance,
			Drawdown: dd,
			PnL:      b.PnL,
		})
	}
}
