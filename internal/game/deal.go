package game

import (
	"errors"
	"fmt"
	"log"

	"skat-game/internal/shared"

	"github.com/google/uuid"
)

var ErrInvalidDeal = errors.New("invalid deal")

// DealState is the bidding progress of a single deal.
type DealState string

const (
	Dealt       DealState = "Dealt"       // Cards are out, nobody has bid yet
	BidResolved DealState = "BidResolved" // The highest bidder is known, or everybody passed
)

// Deal is one distribution of the 32 cards to three seats and the skat.
type Deal struct {
	ID         string
	players    [3]*Hand
	skat       *Hand
	firstToAct int
	state      DealState

	playingPlayer    int
	hasPlayingPlayer bool
}

// NewDeal builds a deal from three 10-card hands in seating order and the
// 2-card skat. Together they must be exactly one Skat deck.
func NewDeal(firstToAct int, hands [3][]shared.Card, skat []shared.Card) (*Deal, error) {
	if firstToAct < 0 || firstToAct >= len(hands) {
		return nil, fmt.Errorf("%w: first to act must be 0, 1 or 2, got %d", ErrInvalidDeal, firstToAct)
	}
	all := make([]shared.Card, 0, shared.DeckSize)
	for i, hand := range hands {
		if len(hand) != shared.HandSize {
			return nil, fmt.Errorf("%w: player %d has %d cards, want %d", ErrInvalidDeal, i+1, len(hand), shared.HandSize)
		}
		all = append(all, hand...)
	}
	if len(skat) != shared.SkatSize {
		return nil, fmt.Errorf("%w: skat has %d cards, want %d", ErrInvalidDeal, len(skat), shared.SkatSize)
	}
	all = append(all, skat...)
	if err := shared.ValidateFullDeck(all); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDeal, err)
	}

	d := &Deal{
		ID:         uuid.NewString(),
		skat:       NewHand("Skat", skat),
		firstToAct: firstToAct,
		state:      Dealt,
	}
	for i, hand := range hands {
		d.players[i] = NewHand(fmt.Sprintf("Player %d", i+1), hand)
	}
	return d, nil
}

// DealFromDeck deals a (shuffled) deck and builds the deal from it.
func DealFromDeck(firstToAct int, deck *shared.Deck) (*Deal, error) {
	hands, skat, err := deck.Deal()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDeal, err)
	}
	return NewDeal(firstToAct, hands, skat)
}

// Players returns the three hands in seating order.
func (d *Deal) Players() [3]*Hand {
	return d.players
}

// Player returns the hand at seat. Callers must pass a seat in 0..2; anything
// else is a programming error and panics.
func (d *Deal) Player(seat int) *Hand {
	if seat < 0 || seat >= len(d.players) {
		log.Panicf("Deal %s: no seat %d.", d.ID, seat)
	}
	return d.players[seat]
}

// Skat returns the two cards set aside.
func (d *Deal) Skat() *Hand {
	return d.skat
}

// FirstToAct is the seat that bids first (Vorhand).
func (d *Deal) FirstToAct() int {
	return d.firstToAct
}

// State returns the bidding progress.
func (d *Deal) State() DealState {
	return d.state
}

// SeatingOrder lists the seats in bidding order, starting with the first to act.
func (d *Deal) SeatingOrder() [3]int {
	n := len(d.players)
	return [3]int{d.firstToAct, (d.firstToAct + 1) % n, (d.firstToAct + 2) % n}
}

// PlayingPlayer returns the seat that won the bidding, if any.
func (d *Deal) PlayingPlayer() (int, bool) {
	return d.playingPlayer, d.hasPlayingPlayer
}

// WinningBid is the value the playing player bid, 0 if everybody passed.
func (d *Deal) WinningBid() int {
	if !d.hasPlayingPlayer {
		return 0
	}
	return d.players[d.playingPlayer].CurrentBid()
}

// ResolveBidding values all three hands and returns the seat with the highest
// bid. On equal values the seat that bids earlier keeps the game. If every
// hand passes there is no playing player.
func (d *Deal) ResolveBidding() (int, bool) {
	if d.state == BidResolved {
		return d.PlayingPlayer()
	}

	var bids [3]int
	for seat, hand := range d.players {
		bids[seat] = hand.MaxBid()
	}
	d.state = BidResolved

	seat, ok := highestBidder(d.SeatingOrder(), bids)
	if !ok {
		log.Printf("Deal %s: All players passed (bids %v).", d.ID, bids)
		return 0, false
	}

	d.players[seat].currentBid = bids[seat]
	d.playingPlayer = seat
	d.hasPlayingPlayer = true
	log.Printf("Deal %s: %s plays %s for %d.", d.ID, d.players[seat].Name(), d.players[seat].GameType(), bids[seat])
	return seat, true
}

// highestBidder walks the seats in bidding order; a later seat only takes over
// with a strictly higher bid.
func highestBidder(order [3]int, bids [3]int) (int, bool) {
	best := order[0]
	for _, seat := range order[1:] {
		if bids[seat] > bids[best] {
			best = seat
		}
	}
	if bids[best] == 0 {
		return 0, false
	}
	return best, true
}

// FourJacks reports whether a player holds all four jacks, first on their own
// and otherwise together with the skat.
func (d *Deal) FourJacks() (withoutSkat bool, withSkat bool) {
	for _, p := range d.players {
		if p.JackCount() == 4 {
			return true, false
		}
	}
	if d.skat.JackCount() == 0 {
		return false, false
	}
	for _, p := range d.players {
		if p.JackCount()+d.skat.JackCount() == 4 {
			return false, true
		}
	}
	return false, false
}

// MostJacks returns the seat holding the most jacks, the lower seat on ties.
// It is a rough guess at the strongest hand and ignores the bidding rules.
func (d *Deal) MostJacks() int {
	best := 0
	for seat, p := range d.players {
		if p.JackCount() > d.players[best].JackCount() {
			best = seat
		}
	}
	return best
}
