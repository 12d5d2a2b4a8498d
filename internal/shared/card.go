package shared

import (
	"errors"
	"fmt"
	"log"
	"strings"
)

var (
	ErrInvalidCard = errors.New("invalid card")
	ErrUnknownSuit = errors.New("unknown suit")
)

// Suit represents the suit of a card (Clubs, Spades, Hearts, Diamonds).
type Suit string

const (
	Clubs    Suit = "Clubs"
	Spades   Suit = "Spades"
	Hearts   Suit = "Hearts"
	Diamonds Suit = "Diamonds"
)

// Suits lists the four suits in their fixed bidding order.
var Suits = [4]Suit{Clubs, Spades, Hearts, Diamonds}

// Index maps the suit to its position in Suits (0 = Clubs ... 3 = Diamonds).
// Cards only come from NewDeck or ParseCard, so an unknown suit here is a bug.
func (s Suit) Index() int {
	switch s {
	case Clubs:
		return 0
	case Spades:
		return 1
	case Hearts:
		return 2
	case Diamonds:
		return 3
	}
	log.Panicf("Unknown suit %q has no index.", string(s))
	return -1
}

// Valid reports whether s is one of the four Skat suits.
func (s Suit) Valid() bool {
	switch s {
	case Clubs, Spades, Hearts, Diamonds:
		return true
	}
	return false
}

// BiddingWeight is the base value of a suit game when bidding.
func (s Suit) BiddingWeight() int {
	switch s {
	case Clubs:
		return 12
	case Spades:
		return 11
	case Hearts:
		return 10
	case Diamonds:
		return 9
	}
	return 0
}

// Symbol returns the German single letter used in the card notation.
func (s Suit) Symbol() byte {
	switch s {
	case Clubs:
		return 'K' // Kreuz
	case Spades:
		return 'P' // Pik
	case Hearts:
		return 'H'
	case Diamonds:
		return 'C' // Caro
	}
	return '?'
}

// SuitFromIndex is the inverse of Suit.Index.
func SuitFromIndex(i int) (Suit, error) {
	if i < 0 || i >= len(Suits) {
		return "", fmt.Errorf("%w: index %d", ErrUnknownSuit, i)
	}
	return Suits[i], nil
}

// ParseSuit reads a suit symbol (K, P, H, C).
func ParseSuit(c byte) (Suit, error) {
	switch c {
	case 'K':
		return Clubs, nil
	case 'P':
		return Spades, nil
	case 'H':
		return Hearts, nil
	case 'C':
		return Diamonds, nil
	}
	return "", fmt.Errorf("%w: symbol %q, use K = Clubs, P = Spades, H = Hearts, C = Diamonds", ErrUnknownSuit, c)
}

// Rank represents the rank of a card.
type Rank string

const (
	Seven Rank = "7"
	Eight Rank = "8"
	Nine  Rank = "9"
	Jack  Rank = "J"
	Queen Rank = "Q"
	King  Rank = "K"
	Ten   Rank = "10"
	Ace   Rank = "A"
)

// Ranks lists the ranks from lowest to highest in a suit game, jacks aside.
var Ranks = [8]Rank{Seven, Eight, Nine, Jack, Queen, King, Ten, Ace}

// Define card values for counting the result of a game
var rankPoints = map[Rank]int{
	Seven: 0,
	Eight: 0,
	Nine:  0,
	Jack:  2,
	Queen: 3,
	King:  4,
	Ten:   10,
	Ace:   11,
}

// Define display order inside a suit (higher first when sorting)
var rankOrder = map[Rank]int{
	Ace:   8,
	Ten:   7,
	King:  6,
	Queen: 5,
	Nine:  3,
	Eight: 2,
	Seven: 1,
}

// Points returns the card points of the rank.
func (r Rank) Points() int {
	return rankPoints[r]
}

// RankOrder is the display strength of a rank inside its suit. Jacks rank
// outside the suits and get 0.
func RankOrder(r Rank) int {
	return rankOrder[r]
}

// Valid reports whether r is one of the eight Skat ranks.
func (r Rank) Valid() bool {
	_, ok := rankPoints[r]
	return ok
}

// Symbol returns the German single letter used in the card notation.
func (r Rank) Symbol() byte {
	switch r {
	case Seven:
		return '7'
	case Eight:
		return '8'
	case Nine:
		return '9'
	case Jack:
		return 'B' // Bube
	case Queen:
		return 'D' // Dame
	case King:
		return 'K'
	case Ten:
		return 'Z' // Zehn
	case Ace:
		return 'A'
	}
	return '?'
}

// ParseRank reads a rank symbol. German and English letters are both accepted.
func ParseRank(c byte) (Rank, error) {
	switch c {
	case '7':
		return Seven, nil
	case '8':
		return Eight, nil
	case '9':
		return Nine, nil
	case 'B', 'J':
		return Jack, nil
	case 'D', 'Q':
		return Queen, nil
	case 'K':
		return King, nil
	case 'Z', 'T':
		return Ten, nil
	case 'A':
		return Ace, nil
	}
	return "", fmt.Errorf("%w: rank symbol %q, use 7, 8, 9, Z/T = Ten, B/J = Jack, D/Q = Queen, K = King, A = Ace", ErrInvalidCard, c)
}

// Card represents a single card of the Skat game.
type Card struct {
	Suit   Suit `json:"suit"`   // The suit of the card
	Rank   Rank `json:"rank"`   // The rank of the card
	Points int  `json:"points"` // The value of the card for counting
}

// NewCard creates a card, deriving its points from the rank.
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank, Points: rank.Points()}
}

// Valid reports whether the card is one of the 32 Skat cards with consistent points.
func (c Card) Valid() bool {
	return c.Suit.Valid() && c.Rank.Valid() && c.Points == c.Rank.Points()
}

// IsJack reports whether the card is a jack. Jacks are always trump.
func (c Card) IsJack() bool {
	return c.Rank == Jack
}

// IsHighCard is true for Jack, Ace, Ten and King.
func (c Card) IsHighCard() bool {
	switch c.Rank {
	case Jack, Ace, Ten, King:
		return true
	}
	return false
}

// String renders the card in two-letter notation, e.g. "KB" for the Jack of Clubs.
func (c Card) String() string {
	return string([]byte{c.Suit.Symbol(), c.Rank.Symbol()})
}

// ParseCard reads a card like "KB" (Jack of Clubs) or "CA" (Ace of Diamonds).
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 2 {
		return Card{}, fmt.Errorf("%w: %q needs two symbols", ErrInvalidCard, s)
	}
	suit, err := ParseSuit(s[0])
	if err != nil {
		return Card{}, fmt.Errorf("%w: %q: %v", ErrInvalidCard, s, err)
	}
	rank, err := ParseRank(s[1])
	if err != nil {
		return Card{}, fmt.Errorf("%w: %q: %v", ErrInvalidCard, s, err)
	}
	return NewCard(suit, rank), nil
}

// ParseCards reads a list of cards separated by commas and/or spaces.
func ParseCards(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		card, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// MustParseCards is ParseCards for literals known to be valid.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		log.Panicf("MustParseCards(%q): %v", s, err)
	}
	return cards
}

// CardsString joins the cards in notation, e.g. "KB, PA, H7".
func CardsString(cards []Card) string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}
