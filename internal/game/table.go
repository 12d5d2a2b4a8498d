package game

import (
	"log"
	"math/rand/v2"
	"sync"

	"skat-game/internal/protocol"
	"skat-game/internal/shared"

	"github.com/google/uuid"
)

// TableState represents the current state of a table.
type TableState string

const (
	Waiting  TableState = "Waiting"  // Waiting for players (the Hub manages the lobby)
	Dealing  TableState = "Dealing"  // Cards are being dealt
	Bidding  TableState = "Bidding"  // Hands are being valued
	Resolved TableState = "Resolved" // Bidding finished, waiting for the next deal
	GameOver TableState = "GameOver" // A player left
)

// MessageSender defines the function signature for sending messages back to clients.
// The Hub will provide an implementation of this.
type MessageSender func(clientID string, message []byte)

// Table seats three players and plays deal after deal, rotating the first bidder.
type Table struct {
	ID          string            `json:"id"`
	Players     [3]*shared.Player `json:"-"`
	Deal        *Deal             `json:"-"`
	FirstToAct  int               `json:"first_to_act"`
	Deals       int               `json:"deals"`
	State       TableState        `json:"state"`
	rng         *rand.Rand
	recorder    Recorder
	mu          sync.Mutex
	sendMessage MessageSender
}

// NewTable initializes a new table. recorder may be nil.
func NewTable(players [3]*shared.Player, rng *rand.Rand, recorder Recorder) *Table {
	return &Table{
		ID:         uuid.New().String(),
		Players:    players,
		FirstToAct: 0,
		State:      Waiting,
		rng:        rng,
		recorder:   recorder,
	}
}

// StartGameLoop announces the table and deals the first hand.
// It's called in a goroutine by the Hub.
func (t *Table) StartGameLoop(sender MessageSender) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sendMessage = sender
	log.Printf("Table %s: Starting game loop.", t.ID)

	playerInfos := make([]protocol.PlayerInfo, len(t.Players))
	for i, p := range t.Players {
		playerInfos[i] = protocol.PlayerInfo{ID: p.ID, Name: p.Name, Position: i}
	}
	startMsg, _ := protocol.NewMessage(protocol.TypeGameStart, protocol.GameStartPayload{
		TableID: t.ID,
		Players: playerInfos,
	})
	t.broadcast(startMsg)

	t.startDeal()
}

// startDeal shuffles, deals, informs every player of their hand and resolves
// the bidding. Assumes lock is held.
func (t *Table) startDeal() {
	if t.State == GameOver {
		log.Printf("Table %s: Cannot deal, game is over.", t.ID)
		return
	}
	t.State = Dealing

	deck := shared.NewDeck()
	deck.Shuffle(t.rng)
	deal, err := DealFromDeck(t.FirstToAct, deck)
	if err != nil {
		log.Printf("Table %s: Error dealing cards: %v", t.ID, err)
		t.State = GameOver
		t.broadcastError("Internal server error during dealing.")
		return
	}
	t.Deal = deal
	t.Deals++
	log.Printf("Table %s: Deal %d (%s) dealt, %s bids first.", t.ID, t.Deals, deal.ID, t.Players[t.FirstToAct].Name)

	t.State = Bidding
	for seat, hand := range deal.Players() {
		hand.Sort()
		payload := protocol.DealHandPayload{
			DealID:     deal.ID,
			Position:   seat,
			FirstToAct: t.FirstToAct,
			Hand:       hand.Cards(),
			Points:     hand.TotalPoints(),
			Evaluation: hand.Evaluation(),
		}
		dealMsg, _ := protocol.NewMessage(protocol.TypeDealHand, payload)
		t.sendToPlayer(t.Players[seat].ID, dealMsg)
	}

	t.resolveBidding()
}

// resolveBidding settles the deal and reports the outcome. Assumes lock is held.
func (t *Table) resolveBidding() {
	deal := t.Deal
	seat, ok := deal.ResolveBidding()
	t.State = Resolved

	result := protocol.BiddingResultPayload{
		DealID:   deal.ID,
		Passed:   !ok,
		Position: -1,
		GameType: shared.GameNone,
	}
	for _, s := range deal.SeatingOrder() {
		result.Bids = append(result.Bids, protocol.PlayerBid{
			PlayerID: t.Players[s].ID,
			Position: s,
			MaxBid:   deal.Player(s).MaxBid(),
		})
	}
	if ok {
		result.PlayingPlayerID = t.Players[seat].ID
		result.Position = seat
		result.Bid = deal.WinningBid()
		result.GameType = deal.Player(seat).GameType()
		log.Printf("Table %s: %s wins the bidding with %d (%s).", t.ID, t.Players[seat].Name, result.Bid, result.GameType)
	} else {
		log.Printf("Table %s: Everybody passed on deal %s.", t.ID, deal.ID)
	}
	resultMsg, _ := protocol.NewMessage(protocol.TypeBiddingResult, result)
	t.broadcast(resultMsg)

	if t.recorder != nil {
		if err := t.recorder.RecordDeal(NewDealRecord(t.ID, t.Players, deal)); err != nil {
			log.Printf("Table %s: Error saving deal %s: %v", t.ID, deal.ID, err)
		}
	}
}

// HandlePlayerAction processes incoming actions from a player.
func (t *Table) HandlePlayerAction(clientID string, msg protocol.Message) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State == GameOver {
		log.Printf("Table %s: Action received from %s but game is over.", t.ID, clientID)
		t.sendErrorToPlayer(clientID, "Game is already over.")
		return
	}

	playerIndex := t.GetPlayerIndex(clientID)
	if playerIndex == -1 {
		log.Printf("Table %s: Action from unknown client ID %s", t.ID, clientID)
		return
	}

	switch msg.Type {
	case protocol.TypeNextDeal:
		if t.State != Resolved {
			log.Printf("Table %s: Received next_deal from %s in wrong state %s", t.ID, clientID, t.State)
			t.sendErrorToPlayer(clientID, "Cannot deal now.")
			return
		}
		t.FirstToAct = (t.FirstToAct + 1) % len(t.Players)
		t.startDeal()

	case protocol.TypeShowSkat:
		if t.State != Resolved || t.Deal == nil {
			t.sendErrorToPlayer(clientID, "Cannot look at the skat now.")
			return
		}
		seat, ok := t.Deal.PlayingPlayer()
		if !ok || seat != playerIndex {
			log.Printf("Table %s: %s asked for the skat without playing.", t.ID, clientID)
			t.sendErrorToPlayer(clientID, "Only the playing player may take the skat.")
			return
		}
		skatMsg, _ := protocol.NewMessage(protocol.TypeSkat, protocol.SkatPayload{
			DealID: t.Deal.ID,
			Cards:  t.Deal.Skat().Cards(),
		})
		t.sendToPlayer(clientID, skatMsg)

	default:
		log.Printf("Table %s: Received unhandled action type '%s' from %s", t.ID, msg.Type, clientID)
	}
}

// HandlePlayerDisconnect ends the table when a player leaves.
func (t *Table) HandlePlayerDisconnect(clientID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.State == GameOver {
		log.Printf("Table %s: Player %s disconnected, but game already over.", t.ID, clientID)
		return
	}

	playerIndex := t.GetPlayerIndex(clientID)
	if playerIndex == -1 {
		log.Printf("Table %s: Disconnect from unknown or already removed client ID %s", t.ID, clientID)
		return
	}

	log.Printf("Table %s: Player %s (%s) disconnected.", t.ID, clientID, t.Players[playerIndex].Name)
	t.State = GameOver

	leftMsg, _ := protocol.NewMessage(protocol.TypePlayerLeft, protocol.PlayerLeftPayload{PlayerID: clientID})
	t.broadcast(leftMsg)

	overMsg, _ := protocol.NewMessage(protocol.TypeGameOver, protocol.GameOverPayload{
		TableID: t.ID,
		Deals:   t.Deals,
		Reason:  t.Players[playerIndex].Name + " left the table",
	})
	t.broadcast(overMsg)
}

// Snapshot returns the state and the current deal under the table lock.
func (t *Table) Snapshot() (TableState, *Deal) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.State, t.Deal
}

// --- Messaging Helpers (Assume lock is held or called safely) ---

// broadcast sends a message to all players at the table.
func (t *Table) broadcast(message []byte) {
	if t.sendMessage == nil {
		log.Printf("Table %s: Error - sendMessage callback is nil during broadcast.", t.ID)
		return
	}
	for _, player := range t.Players {
		if player != nil {
			t.sendMessage(player.ID, message)
		}
	}
}

// sendToPlayer sends a message to a specific player by ID.
func (t *Table) sendToPlayer(playerID string, message []byte) {
	if t.sendMessage == nil {
		log.Printf("Table %s: Error - sendMessage callback is nil when sending to %s.", t.ID, playerID)
		return
	}
	t.sendMessage(playerID, message)
}

// sendErrorToPlayer sends an error message to a specific player.
func (t *Table) sendErrorToPlayer(playerID string, errorMsg string) {
	msgBytes, err := protocol.NewMessage(protocol.TypeError, protocol.ErrorPayload{Message: errorMsg})
	if err != nil {
		log.Printf("Table %s: Error creating error message for %s: %v", t.ID, playerID, err)
		return
	}
	t.sendToPlayer(playerID, msgBytes)
}

// broadcastError sends an error message to all players.
func (t *Table) broadcastError(errorMsg string) {
	msgBytes, err := protocol.NewMessage(protocol.TypeError, protocol.ErrorPayload{Message: errorMsg})
	if err != nil {
		log.Printf("Table %s: Error creating broadcast error message: %v", t.ID, err)
		return
	}
	t.broadcast(msgBytes)
}

// GetPlayerIndex finds the seat (0-2) of a player by their ID. Returns -1 if not found.
func (t *Table) GetPlayerIndex(playerID string) int {
	for i, p := range t.Players {
		if p != nil && p.ID == playerID {
			return i
		}
	}
	return -1
}
