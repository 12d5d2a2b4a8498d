// Package bidding computes how high a Skat hand may bid in a suit game.
//
// The rules used here:
//   - at least five trumps (all jacks plus the longest suit),
//   - with exactly five trumps the hand also needs an ace outside trump,
//     and the trump suit needs 10 points or more than two jacks behind it,
//   - the value is the trump suit's weight times (|jack factor| + 1).
package bidding

import "skat-game/internal/shared"

// MinTrumpCount is the number of trumps a hand needs to open the bidding.
const MinTrumpCount = 5

// minTrumpPoints is the points a five-trump suit needs unless jacks make up for it.
const minTrumpPoints = 10

// Stats is what the engine reads from a hand. Arrays are indexed by Suit.Index().
type Stats struct {
	Counts [4]int  // non-jack cards per suit
	Points [4]int  // points of the non-jack cards per suit
	Jacks  [4]bool // jack of that suit held
	Aces   [4]bool // ace of that suit held
}

// JackCount returns the number of jacks held.
func (s Stats) JackCount() int {
	n := 0
	for _, held := range s.Jacks {
		if held {
			n++
		}
	}
	return n
}

// AceCount returns the number of aces held.
func (s Stats) AceCount() int {
	n := 0
	for _, held := range s.Aces {
		if held {
			n++
		}
	}
	return n
}

// MaxCount is the length of the longest suit, jacks not counted.
func (s Stats) MaxCount() int {
	m := 0
	for _, c := range s.Counts {
		m = max(m, c)
	}
	return m
}

// Evaluation is the outcome of valuing a hand. Trump, JackFactor and
// Multiplier are only set when Eligible is true; Value is 0 otherwise.
type Evaluation struct {
	Eligible   bool        `json:"eligible"`
	Trump      shared.Suit `json:"trump,omitempty"`
	TrumpCount int         `json:"trump_count"`
	JackFactor int         `json:"jack_factor"`
	Multiplier int         `json:"multiplier"`
	Value      int         `json:"value"`
}

// GameType is the suit game the evaluation would announce, GameNone when passing.
func (e Evaluation) GameType() shared.GameType {
	if !e.Eligible {
		return shared.GameNone
	}
	return shared.GameTypeFromSuit(e.Trump)
}

// Evaluate determines trump, eligibility and the maximum bid value of a hand.
func Evaluate(s Stats) Evaluation {
	maxCount := s.MaxCount()
	jacks := s.JackCount()
	trumpCount := jacks + maxCount

	pass := Evaluation{TrumpCount: trumpCount}
	if trumpCount < MinTrumpCount {
		return pass
	}

	aces := s.AceCount()
	if trumpCount == MinTrumpCount && aces == 0 {
		return pass
	}

	trump, ok := chooseTrump(s, maxCount, trumpCount, jacks)
	if !ok {
		return pass
	}

	// A bare five trumps must be backed by an ace in a side suit.
	if trumpCount == MinTrumpCount && aces-aceIn(s, trump) == 0 {
		return pass
	}

	factor := JackFactor(s.Jacks)
	multiplier := abs(factor) + 1
	suit := shared.Suits[trump]

	return Evaluation{
		Eligible:   true,
		Trump:      suit,
		TrumpCount: trumpCount,
		JackFactor: factor,
		Multiplier: multiplier,
		Value:      suit.BiddingWeight() * multiplier,
	}
}

// chooseTrump picks among the longest suits. With exactly five trumps a suit
// only qualifies with enough points or more than two jacks. A later suit
// replaces the current choice only when it holds fewer aces, so equal suits
// resolve to the higher suit in Clubs, Spades, Hearts, Diamonds order.
func chooseTrump(s Stats, maxCount, trumpCount, jacks int) (int, bool) {
	best := -1
	for i, count := range s.Counts {
		if count != maxCount {
			continue
		}
		if trumpCount == MinTrumpCount && s.Points[i] < minTrumpPoints && jacks <= 2 {
			continue
		}
		if best == -1 || aceIn(s, i) < aceIn(s, best) {
			best = i
		}
	}
	return best, best != -1
}

func aceIn(s Stats, suit int) int {
	if s.Aces[suit] {
		return 1
	}
	return 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
