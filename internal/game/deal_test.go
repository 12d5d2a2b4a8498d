package game

import (
	"errors"
	"testing"

	"skat-game/internal/shared"
)

// Seats 0 and 1 both bid 24 in clubs, seat 2 passes.
var tieHands = [3]string{
	"KB KA KD K7 K8 PA P7 P8 H7 H8",
	"PB HB KZ KK K9 HA C7 C8 P9 H9",
	"PD PK PZ HD HK HZ CB CD CK CZ",
}

const tieSkat = "C9 CA"

func newTieDeal(t *testing.T, firstToAct int) *Deal {
	t.Helper()
	return newDealFrom(t, firstToAct, tieHands, tieSkat)
}

func newDealFrom(t *testing.T, firstToAct int, seats [3]string, skat string) *Deal {
	t.Helper()
	var hands [3][]shared.Card
	for i, h := range seats {
		hands[i] = shared.MustParseCards(h)
	}
	d, err := NewDeal(firstToAct, hands, shared.MustParseCards(skat))
	if err != nil {
		t.Fatalf("NewDeal() error = %v", err)
	}
	return d
}

// fillDeal gives seat 0 and the skat the listed cards and deals the rest of
// the deck in order to seats 1 and 2.
func fillDeal(t *testing.T, seat0, skat string) *Deal {
	t.Helper()
	var hands [3][]shared.Card
	hands[0] = shared.MustParseCards(seat0)
	skatCards := shared.MustParseCards(skat)

	used := make(map[shared.Card]bool)
	for _, c := range append(append([]shared.Card(nil), hands[0]...), skatCards...) {
		used[c] = true
	}
	seat := 1
	for _, c := range shared.NewDeck().Cards {
		if used[c] {
			continue
		}
		if len(hands[seat]) == shared.HandSize {
			seat++
		}
		hands[seat] = append(hands[seat], c)
	}

	d, err := NewDeal(0, hands, skatCards)
	if err != nil {
		t.Fatalf("NewDeal() error = %v", err)
	}
	return d
}

func TestDeal_ResolveBidding_Tie(t *testing.T) {
	tests := []struct {
		firstToAct int
		want       int
	}{
		{0, 0},
		{1, 1},
		{2, 0},
	}

	for _, tt := range tests {
		d := newTieDeal(t, tt.firstToAct)
		seat, ok := d.ResolveBidding()
		if !ok || seat != tt.want {
			t.Errorf("first to act %d: ResolveBidding() = %d, %v, want %d, true", tt.firstToAct, seat, ok, tt.want)
		}
		if got := d.WinningBid(); got != 24 {
			t.Errorf("first to act %d: WinningBid() = %d, want 24", tt.firstToAct, got)
		}
		if got := d.Player(seat).GameType(); got != shared.GameClubs {
			t.Errorf("first to act %d: GameType() = %v, want %v", tt.firstToAct, got, shared.GameClubs)
		}
		if d.State() != BidResolved {
			t.Errorf("State() = %v, want %v", d.State(), BidResolved)
		}
	}
}

func TestDeal_ResolveBidding_Idempotent(t *testing.T) {
	d := newTieDeal(t, 1)
	seat1, ok1 := d.ResolveBidding()
	seat2, ok2 := d.ResolveBidding()
	if seat1 != seat2 || ok1 != ok2 {
		t.Errorf("ResolveBidding() = %d, %v then %d, %v", seat1, ok1, seat2, ok2)
	}
	if got := d.Player(0).CurrentBid(); got != 0 {
		t.Errorf("losing seat CurrentBid() = %d, want 0", got)
	}
	if got := d.Player(1).CurrentBid(); got != 24 {
		t.Errorf("winning seat CurrentBid() = %d, want 24", got)
	}
}

func TestDeal_ResolveBidding_AllPass(t *testing.T) {
	// Every hand is short of five trumps.
	d := newDealFrom(t, 0, [3]string{
		"KB PB K7 K8 P7 P8 H7 H8 C7 C8",
		"HB K9 KD KK P9 PD PK H9 HD HK",
		"CB KZ KA PZ PA HZ HA C9 CD CK",
	}, "CZ CA")
	for seat, p := range d.Players() {
		if p.MaxBid() != 0 {
			t.Fatalf("seat %d (%s) bids %d, fixture expects passes", seat, p, p.MaxBid())
		}
	}

	if seat, ok := d.ResolveBidding(); ok {
		t.Errorf("ResolveBidding() = %d, true, want no playing player", seat)
	}
	if got := d.WinningBid(); got != 0 {
		t.Errorf("WinningBid() = %d, want 0", got)
	}
	if _, ok := d.PlayingPlayer(); ok {
		t.Error("PlayingPlayer() reported a seat after everybody passed")
	}
}

func TestHighestBidder(t *testing.T) {
	tests := []struct {
		name  string
		order [3]int
		bids  [3]int
		want  int
		ok    bool
	}{
		{"later seat outbids", [3]int{1, 2, 0}, [3]int{18, 0, 20}, 2, true},
		{"equal bids keep first", [3]int{0, 1, 2}, [3]int{20, 20, 20}, 0, true},
		{"equal bids keep earlier seat", [3]int{2, 0, 1}, [3]int{30, 20, 30}, 2, true},
		{"only the last bids", [3]int{0, 1, 2}, [3]int{0, 0, 18}, 2, true},
		{"all pass", [3]int{1, 2, 0}, [3]int{0, 0, 0}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := highestBidder(tt.order, tt.bids)
			if got != tt.want || ok != tt.ok {
				t.Errorf("highestBidder() = %d, %v, want %d, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDeal_SeatingOrder(t *testing.T) {
	d := newTieDeal(t, 2)
	if got, want := d.SeatingOrder(), [3]int{2, 0, 1}; got != want {
		t.Errorf("SeatingOrder() = %v, want %v", got, want)
	}
}

func TestNewDeal_Errors(t *testing.T) {
	var good [3][]shared.Card
	for i, h := range tieHands {
		good[i] = shared.MustParseCards(h)
	}
	skat := shared.MustParseCards(tieSkat)

	short := good
	short[1] = good[1][:9]

	duplicate := good
	duplicate[2] = append([]shared.Card(nil), good[2]...)
	duplicate[2][0] = good[0][0]

	tests := []struct {
		name       string
		firstToAct int
		hands      [3][]shared.Card
		skat       []shared.Card
	}{
		{"first to act too high", 3, good, skat},
		{"first to act negative", -1, good, skat},
		{"short hand", 0, short, skat},
		{"short skat", 0, good, skat[:1]},
		{"duplicate card", 0, duplicate, skat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDeal(tt.firstToAct, tt.hands, tt.skat)
			if !errors.Is(err, ErrInvalidDeal) {
				t.Errorf("NewDeal() error = %v, want %v", err, ErrInvalidDeal)
			}
		})
	}

	_, err := NewDeal(0, duplicate, skat)
	if !errors.Is(err, shared.ErrInvalidDeck) {
		t.Errorf("NewDeal() with a duplicate error = %v, want it to wrap %v", err, shared.ErrInvalidDeck)
	}
}

func TestDealFromDeck(t *testing.T) {
	d, err := DealFromDeck(1, shared.NewDeck())
	if err != nil {
		t.Fatalf("DealFromDeck() error = %v", err)
	}
	if d.ID == "" {
		t.Error("deal has no ID")
	}
	for seat, p := range d.Players() {
		if p.Len() != shared.HandSize {
			t.Errorf("seat %d has %d cards", seat, p.Len())
		}
	}
	if d.Skat().Len() != shared.SkatSize || d.FirstToAct() != 1 || d.State() != Dealt {
		t.Errorf("DealFromDeck() = skat %d, first %d, state %v", d.Skat().Len(), d.FirstToAct(), d.State())
	}

	empty := &shared.Deck{}
	if _, err := DealFromDeck(0, empty); !errors.Is(err, ErrInvalidDeal) {
		t.Errorf("DealFromDeck(empty) error = %v, want %v", err, ErrInvalidDeal)
	}
}

func TestDeal_FourJacks(t *testing.T) {
	tests := []struct {
		name        string
		seat0, skat string
		without     bool
		with        bool
	}{
		{"in one hand", "KB PB HB CB KA KZ KK K7 K8 K9", "PA PZ", true, false},
		{"with the skat", "KB PB HB KA KZ KK K7 K8 K9 PA", "CB PZ", false, true},
		{"spread", "KB PB KA KZ KK K7 K8 K9 PA PD", "HB PZ", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			without, with := fillDeal(t, tt.seat0, tt.skat).FourJacks()
			if without != tt.without || with != tt.with {
				t.Errorf("FourJacks() = %v, %v, want %v, %v", without, with, tt.without, tt.with)
			}
		})
	}

	if without, with := newTieDeal(t, 0).FourJacks(); without || with {
		t.Errorf("FourJacks() = %v, %v, want false, false", without, with)
	}
}

func TestDeal_MostJacks(t *testing.T) {
	if got := newTieDeal(t, 0).MostJacks(); got != 1 {
		t.Errorf("MostJacks() = %d, want 1", got)
	}
	if got := fillDeal(t, "KB PB HB CB KA KZ KK K7 K8 K9", "PA PZ").MostJacks(); got != 0 {
		t.Errorf("MostJacks() = %d, want 0", got)
	}
}

func TestDeal_PlayerOutOfRangePanics(t *testing.T) {
	d := newTieDeal(t, 0)
	for _, seat := range []int{-1, 3} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Player(%d) did not panic", seat)
				}
			}()
			d.Player(seat)
		}()
	}
}
