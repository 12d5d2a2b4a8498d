package shared

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
)

// DeckSize is the number of cards in a Skat deck.
const DeckSize = 32

// HandSize and SkatSize are the card counts of a fresh deal.
const (
	HandSize = 10
	SkatSize = 2
)

var ErrInvalidDeck = errors.New("invalid deck")

// Deck represents a collection of cards.
type Deck struct {
	Cards []Card
}

// NewDeck creates the 32 Skat cards ordered by suit, then rank.
func NewDeck() *Deck {
	cards := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return &Deck{Cards: cards}
}

// Shuffle randomizes the order of cards in the deck using rng.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
	log.Println("Deck shuffled.")
}

// Deal distributes the deck in the usual packets: 3 to each player, 2 to the
// skat, 4 to each player, then 3 to each player. The deck is empty afterwards.
func (d *Deck) Deal() ([3][]Card, []Card, error) {
	var hands [3][]Card
	if len(d.Cards) != DeckSize {
		return hands, nil, fmt.Errorf("%w: cannot deal %d cards, need %d", ErrInvalidDeck, len(d.Cards), DeckSize)
	}

	for i := range hands {
		hands[i] = make([]Card, 0, HandSize)
	}
	skat := make([]Card, 0, SkatSize)

	next := 0
	dealRound := func(n int) {
		for i := range hands {
			hands[i] = append(hands[i], d.Cards[next:next+n]...)
			next += n
		}
	}

	dealRound(3)
	skat = append(skat, d.Cards[next:next+SkatSize]...)
	next += SkatSize
	dealRound(4)
	dealRound(3)

	d.Cards = []Card{}
	return hands, skat, nil
}

// ValidateFullDeck checks that cards are exactly the 32 Skat cards, once each.
func ValidateFullDeck(cards []Card) error {
	if len(cards) != DeckSize {
		return fmt.Errorf("%w: got %d cards, want %d", ErrInvalidDeck, len(cards), DeckSize)
	}
	seen := make(map[Card]bool, DeckSize)
	for _, c := range cards {
		if !c.Valid() {
			return fmt.Errorf("%w: not a Skat card: %+v", ErrInvalidDeck, c)
		}
		if seen[c] {
			return fmt.Errorf("%w: duplicate card %s", ErrInvalidDeck, c)
		}
		seen[c] = true
	}
	return nil
}
