package game

import (
	"time"

	"skat-game/internal/shared"
)

// DealRecord is the outcome of one deal as it is stored for later lookup.
type DealRecord struct {
	DealID        string
	TableID       string
	CreatedAt     time.Time
	Players       [3]string // names in seating order
	FirstToAct    int
	PlayingPlayer string // empty when everybody passed
	BidValue      int
	GameType      shared.GameType
	Skat          []shared.Card
}

// Recorder stores finished deals.
type Recorder interface {
	RecordDeal(record DealRecord) error
}

// NewDealRecord summarizes a deal after bidding.
func NewDealRecord(tableID string, players [3]*shared.Player, d *Deal) DealRecord {
	r := DealRecord{
		DealID:     d.ID,
		TableID:    tableID,
		CreatedAt:  time.Now().UTC(),
		FirstToAct: d.FirstToAct(),
		BidValue:   d.WinningBid(),
		GameType:   shared.GameNone,
		Skat:       d.Skat().Cards(),
	}
	for i, p := range players {
		if p != nil {
			r.Players[i] = p.Name
		}
	}
	if seat, ok := d.PlayingPlayer(); ok {
		r.PlayingPlayer = r.Players[seat]
		r.GameType = d.Player(seat).GameType()
	}
	return r
}
