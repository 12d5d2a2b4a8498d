package game

import (
	"fmt"
	"sort"

	"skat-game/internal/bidding"
	"skat-game/internal/shared"
)

// Hand holds the cards of one party of a deal: a player or the skat.
type Hand struct {
	name         string
	cards        []shared.Card
	jackCount    int
	jackPresence [4]bool

	currentBid int
	evaluation *bidding.Evaluation // nil until first valued
}

// NewHand creates a hand and derives its jack statistics.
func NewHand(name string, cards []shared.Card) *Hand {
	h := &Hand{
		name:  name,
		cards: append([]shared.Card(nil), cards...),
	}
	h.countJacks()
	return h
}

// WithSkat returns a new hand holding the player's cards plus the skat.
func (h *Hand) WithSkat(skat *Hand) *Hand {
	cards := make([]shared.Card, 0, len(h.cards)+len(skat.cards))
	cards = append(cards, h.cards...)
	cards = append(cards, skat.cards...)
	return NewHand(h.name, cards)
}

func (h *Hand) countJacks() {
	h.jackCount = 0
	h.jackPresence = [4]bool{}
	for _, c := range h.cards {
		if c.IsJack() {
			h.jackCount++
			h.jackPresence[c.Suit.Index()] = true
		}
	}
}

// Name returns the owner of the hand.
func (h *Hand) Name() string {
	return h.name
}

// Cards returns a copy of the cards in the hand.
func (h *Hand) Cards() []shared.Card {
	return append([]shared.Card(nil), h.cards...)
}

// Len returns the number of cards held.
func (h *Hand) Len() int {
	return len(h.cards)
}

// AddCard adds a card and forgets any cached valuation.
func (h *Hand) AddCard(card shared.Card) {
	h.cards = append(h.cards, card)
	h.changed()
}

// RemoveCard removes a card from the hand.
func (h *Hand) RemoveCard(card shared.Card) bool {
	for i, c := range h.cards {
		if c == card {
			h.cards = append(h.cards[:i], h.cards[i+1:]...)
			h.changed()
			return true
		}
	}
	return false
}

func (h *Hand) changed() {
	h.countJacks()
	h.evaluation = nil
}

// TotalPoints sums the card points in the hand.
func (h *Hand) TotalPoints() int {
	total := 0
	for _, c := range h.cards {
		total += c.Points
	}
	return total
}

// Holds checks if the hand has a specific card.
func (h *Hand) Holds(suit shared.Suit, rank shared.Rank) bool {
	for _, c := range h.cards {
		if c.Suit == suit && c.Rank == rank {
			return true
		}
	}
	return false
}

// CountOfRank returns the number of cards of that rank.
func (h *Hand) CountOfRank(rank shared.Rank) int {
	n := 0
	for _, c := range h.cards {
		if c.Rank == rank {
			n++
		}
	}
	return n
}

// CountOfSuit returns the number of cards of that suit, jacks excluded.
func (h *Hand) CountOfSuit(suit shared.Suit) int {
	n := 0
	for _, c := range h.cards {
		if !c.IsJack() && c.Suit == suit {
			n++
		}
	}
	return n
}

// CountsBySuit returns the non-jack card count per suit in Clubs, Spades, Hearts, Diamonds order.
func (h *Hand) CountsBySuit() [4]int {
	return h.Stats().Counts
}

// PointsBySuit returns the non-jack card points per suit in Clubs, Spades, Hearts, Diamonds order.
func (h *Hand) PointsBySuit() [4]int {
	return h.Stats().Points
}

// JackCount returns the number of jacks held.
func (h *Hand) JackCount() int {
	return h.jackCount
}

// HasJack reports whether the jack of suit is held.
func (h *Hand) HasJack(suit shared.Suit) bool {
	return h.jackPresence[suit.Index()]
}

// Stats collects what the bidding engine needs in one pass over the cards.
func (h *Hand) Stats() bidding.Stats {
	s := bidding.Stats{Jacks: h.jackPresence}
	for _, c := range h.cards {
		i := c.Suit.Index()
		if c.Rank == shared.Ace {
			s.Aces[i] = true
		}
		if c.IsJack() {
			continue
		}
		s.Counts[i]++
		s.Points[i] += c.Points
	}
	return s
}

// Evaluation values the hand once and caches the result.
func (h *Hand) Evaluation() bidding.Evaluation {
	if h.evaluation == nil {
		e := bidding.Evaluate(h.Stats())
		h.evaluation = &e
	}
	return *h.evaluation
}

// MaxBid is the highest value the hand may bid; 0 means pass.
func (h *Hand) MaxBid() int {
	return h.Evaluation().Value
}

// GameType is the game the hand would announce, GameNone if it passes or was never valued.
func (h *Hand) GameType() shared.GameType {
	if h.evaluation == nil {
		return shared.GameNone
	}
	return h.evaluation.GameType()
}

// CurrentBid is the value the owner has called so far.
func (h *Hand) CurrentBid() int {
	return h.currentBid
}

// DisplayTrump names the suit a finished hand would most likely have played:
// the longest suit, ties going to the one with more points, then to suit order.
// It returns the suit with its non-jack card count and points.
func (h *Hand) DisplayTrump() (shared.Suit, int, int) {
	s := h.Stats()
	maxCount := s.MaxCount()
	best := -1
	for i, count := range s.Counts {
		if count != maxCount {
			continue
		}
		if best == -1 || s.Points[i] > s.Points[best] {
			best = i
		}
	}
	return shared.Suits[best], s.Counts[best], s.Points[best]
}

// Sort orders the cards for display: jacks first (Clubs to Diamonds), then
// each suit from Ace down to Seven.
func (h *Hand) Sort() {
	sort.SliceStable(h.cards, func(i, j int) bool {
		a, b := h.cards[i], h.cards[j]
		switch {
		case a.IsJack() && b.IsJack():
			return a.Suit.Index() < b.Suit.Index()
		case a.IsJack():
			return true
		case b.IsJack():
			return false
		case a.Suit != b.Suit:
			return a.Suit.Index() < b.Suit.Index()
		}
		return shared.RankOrder(a.Rank) > shared.RankOrder(b.Rank)
	})
}

func (h *Hand) String() string {
	return fmt.Sprintf("%s: [%s]", h.name, shared.CardsString(h.cards))
}
