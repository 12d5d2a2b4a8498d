package game

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"

	"skat-game/internal/protocol"
	"skat-game/internal/shared"
)

type sentMessage struct {
	to  string
	msg protocol.Message
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (f *fakeSender) send(clientID string, message []byte) {
	var msg protocol.Message
	if err := json.Unmarshal(message, &msg); err != nil {
		panic(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{to: clientID, msg: msg})
}

func (f *fakeSender) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
}

func (f *fakeSender) ofType(msgType string) []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentMessage
	for _, s := range f.sent {
		if s.msg.Type == msgType {
			out = append(out, s)
		}
	}
	return out
}

type fakeRecorder struct {
	records []DealRecord
	err     error
}

func (f *fakeRecorder) RecordDeal(r DealRecord) error {
	f.records = append(f.records, r)
	return f.err
}

func newTestTable(seed uint64) (*Table, *fakeSender, *fakeRecorder) {
	players := [3]*shared.Player{
		shared.NewPlayer("p1", "Anna"),
		shared.NewPlayer("p2", "Ben"),
		shared.NewPlayer("p3", "Clara"),
	}
	recorder := &fakeRecorder{}
	table := NewTable(players, rand.New(rand.NewPCG(seed, seed+1)), recorder)
	sender := &fakeSender{}
	table.StartGameLoop(sender.send)
	return table, sender, recorder
}

func decode[T any](t *testing.T, m protocol.Message) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(m.Payload, &v); err != nil {
		t.Fatalf("decoding %s payload: %v", m.Type, err)
	}
	return v
}

func TestTable_StartGameLoop(t *testing.T) {
	table, sender, recorder := newTestTable(1)

	if got := len(sender.ofType(protocol.TypeGameStart)); got != 3 {
		t.Errorf("sent %d game_start messages, want 3", got)
	}

	hands := sender.ofType(protocol.TypeDealHand)
	if len(hands) != 3 {
		t.Fatalf("sent %d deal_hand messages, want 3", len(hands))
	}
	seen := make(map[shared.Card]bool)
	for _, m := range hands {
		p := decode[protocol.DealHandPayload](t, m.msg)
		if table.Players[p.Position].ID != m.to {
			t.Errorf("hand for seat %d went to %s", p.Position, m.to)
		}
		if len(p.Hand) != shared.HandSize {
			t.Errorf("seat %d got %d cards", p.Position, len(p.Hand))
		}
		for _, c := range p.Hand {
			if seen[c] {
				t.Errorf("card %s dealt twice", c)
			}
			seen[c] = true
		}
	}

	results := sender.ofType(protocol.TypeBiddingResult)
	if len(results) != 3 {
		t.Fatalf("sent %d bidding_result messages, want 3", len(results))
	}
	result := decode[protocol.BiddingResultPayload](t, results[0].msg)
	if len(result.Bids) != 3 || result.Bids[0].Position != 0 {
		t.Errorf("Bids = %+v, want three bids starting with seat 0", result.Bids)
	}

	state, deal := table.Snapshot()
	if state != Resolved || deal == nil || table.Deals != 1 {
		t.Errorf("after start: state %v, deal %v, deals %d", state, deal, table.Deals)
	}
	if seat, ok := deal.PlayingPlayer(); ok != !result.Passed || (ok && seat != result.Position) {
		t.Errorf("bidding_result %+v does not match deal (%d, %v)", result, seat, ok)
	}

	if len(recorder.records) != 1 || recorder.records[0].DealID != deal.ID {
		t.Fatalf("recorded %+v, want deal %s", recorder.records, deal.ID)
	}
	if got := recorder.records[0].Players; got != [3]string{"Anna", "Ben", "Clara"} {
		t.Errorf("recorded players %v", got)
	}
}

func TestTable_NextDealRotatesFirstToAct(t *testing.T) {
	table, sender, recorder := newTestTable(2)

	for want := 1; want <= 3; want++ {
		sender.reset()
		table.HandlePlayerAction("p2", protocol.Message{Type: protocol.TypeNextDeal})
		if table.FirstToAct != want%3 {
			t.Errorf("FirstToAct = %d, want %d", table.FirstToAct, want%3)
		}
		results := sender.ofType(protocol.TypeBiddingResult)
		if len(results) != 3 {
			t.Fatalf("deal %d: sent %d bidding_result messages, want 3", want+1, len(results))
		}
		result := decode[protocol.BiddingResultPayload](t, results[0].msg)
		if result.Bids[0].Position != want%3 {
			t.Errorf("first bid from seat %d, want %d", result.Bids[0].Position, want%3)
		}
	}
	if table.Deals != 4 || len(recorder.records) != 4 {
		t.Errorf("Deals = %d, records = %d, want 4 and 4", table.Deals, len(recorder.records))
	}
}

func TestTable_ShowSkat(t *testing.T) {
	table, sender, _ := newTestTable(3)

	// Deal until somebody plays.
	seat, ok := table.Deal.PlayingPlayer()
	for i := 0; !ok && i < 50; i++ {
		table.HandlePlayerAction("p1", protocol.Message{Type: protocol.TypeNextDeal})
		seat, ok = table.Deal.PlayingPlayer()
	}
	if !ok {
		t.Fatal("no deal with a playing player in 50 tries")
	}

	other := table.Players[(seat+1)%3].ID
	sender.reset()
	table.HandlePlayerAction(other, protocol.Message{Type: protocol.TypeShowSkat})
	if errs := sender.ofType(protocol.TypeError); len(errs) != 1 || errs[0].to != other {
		t.Errorf("show_skat from a defender: errors %+v, want one to %s", errs, other)
	}
	if got := len(sender.ofType(protocol.TypeSkat)); got != 0 {
		t.Errorf("defender received %d skat messages", got)
	}

	declarer := table.Players[seat].ID
	sender.reset()
	table.HandlePlayerAction(declarer, protocol.Message{Type: protocol.TypeShowSkat})
	skats := sender.ofType(protocol.TypeSkat)
	if len(skats) != 1 || skats[0].to != declarer {
		t.Fatalf("skat messages %+v, want one to %s", skats, declarer)
	}
	p := decode[protocol.SkatPayload](t, skats[0].msg)
	if shared.CardsString(p.Cards) != shared.CardsString(table.Deal.Skat().Cards()) {
		t.Errorf("skat = %v, want %v", p.Cards, table.Deal.Skat().Cards())
	}
}

func TestTable_UnknownPlayerIsIgnored(t *testing.T) {
	table, sender, _ := newTestTable(4)
	sender.reset()
	table.HandlePlayerAction("stranger", protocol.Message{Type: protocol.TypeNextDeal})
	if len(sender.sent) != 0 || table.Deals != 1 {
		t.Errorf("stranger's action sent %d messages, deals %d", len(sender.sent), table.Deals)
	}
}

func TestTable_Disconnect(t *testing.T) {
	table, sender, _ := newTestTable(5)
	sender.reset()

	table.HandlePlayerDisconnect("p3")
	if state, _ := table.Snapshot(); state != GameOver {
		t.Errorf("state = %v, want %v", state, GameOver)
	}
	if got := len(sender.ofType(protocol.TypePlayerLeft)); got != 3 {
		t.Errorf("sent %d player_left messages, want 3", got)
	}
	overs := sender.ofType(protocol.TypeGameOver)
	if len(overs) != 3 {
		t.Fatalf("sent %d game_over messages, want 3", len(overs))
	}
	if p := decode[protocol.GameOverPayload](t, overs[0].msg); p.Deals != 1 || p.TableID != table.ID {
		t.Errorf("game_over = %+v", p)
	}

	sender.reset()
	table.HandlePlayerAction("p1", protocol.Message{Type: protocol.TypeNextDeal})
	if errs := sender.ofType(protocol.TypeError); len(errs) != 1 {
		t.Errorf("action after game over sent %d errors, want 1", len(errs))
	}
	table.HandlePlayerDisconnect("p1")
	if got := len(sender.ofType(protocol.TypeGameOver)); got != 0 {
		t.Errorf("second disconnect sent %d game_over messages", got)
	}
}

func TestTable_RecorderErrorDoesNotStopTable(t *testing.T) {
	players := [3]*shared.Player{
		shared.NewPlayer("p1", "Anna"),
		shared.NewPlayer("p2", "Ben"),
		shared.NewPlayer("p3", "Clara"),
	}
	recorder := &fakeRecorder{err: errors.New("disk full")}
	table := NewTable(players, rand.New(rand.NewPCG(6, 7)), recorder)
	sender := &fakeSender{}
	table.StartGameLoop(sender.send)

	if state, _ := table.Snapshot(); state != Resolved {
		t.Errorf("state = %v, want %v", state, Resolved)
	}
	if len(recorder.records) != 1 {
		t.Errorf("recorder called %d times, want 1", len(recorder.records))
	}
}

func TestNewDealRecord(t *testing.T) {
	players := [3]*shared.Player{
		shared.NewPlayer("p1", "Anna"),
		shared.NewPlayer("p2", "Ben"),
		shared.NewPlayer("p3", "Clara"),
	}
	d := newTieDeal(t, 1)
	d.ResolveBidding()

	r := NewDealRecord("table-1", players, d)
	if r.PlayingPlayer != "Ben" || r.BidValue != 24 || r.GameType != shared.GameClubs {
		t.Errorf("NewDealRecord() = %+v, want Ben playing clubs for 24", r)
	}
	if r.FirstToAct != 1 || r.TableID != "table-1" || shared.CardsString(r.Skat) != "C9, CA" {
		t.Errorf("NewDealRecord() = %+v", r)
	}

	passed := newDealFrom(t, 0, [3]string{
		"KB PB K7 K8 P7 P8 H7 H8 C7 C8",
		"HB K9 KD KK P9 PD PK H9 HD HK",
		"CB KZ KA PZ PA HZ HA C9 CD CK",
	}, "CZ CA")
	passed.ResolveBidding()
	if r := NewDealRecord("table-1", players, passed); r.PlayingPlayer != "" || r.GameType != shared.GameNone {
		t.Errorf("NewDealRecord() after all passed = %+v", r)
	}
}
