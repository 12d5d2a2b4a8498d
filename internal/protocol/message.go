package protocol

import (
	"encoding/json"

	"skat-game/internal/bidding"
	"skat-game/internal/shared"
)

// Message types exchanged over the websocket.
const (
	// Client -> Server
	TypeCreateTable = "create_table"
	TypeJoinTable   = "join_table"
	TypeNextDeal    = "next_deal"
	TypeShowSkat    = "show_skat"
	TypePing        = "ping"

	// Server -> Client
	TypeTableCreated  = "table_created"
	TypeLobbyUpdate   = "lobby_update"
	TypeJoinError     = "join_error"
	TypeGameStart     = "game_start"
	TypeDealHand      = "deal_hand"
	TypeBiddingResult = "bidding_result"
	TypeSkat          = "skat"
	TypePlayerLeft    = "player_left"
	TypeGameOver      = "game_over"
	TypeError         = "error"
	TypePong          = "pong"
)

// Message represents a generic WebSocket message structure.
type Message struct {
	Type    string          `json:"type"`              // Type of the message (e.g., "join_table", "next_deal")
	Payload json.RawMessage `json:"payload,omitempty"` // Raw JSON payload, allows flexible structures
}

// --- Client -> Server Payload Structs ---

type CreateTablePayload struct {
	Name string `json:"name"`
}

type JoinTablePayload struct {
	Name      string `json:"name"`
	TableCode string `json:"table_code"`
}

// --- Server -> Client Payload Structs ---

type TableCreatedPayload struct {
	TableCode string `json:"table_code"`
}

type LobbyUpdatePayload struct {
	Players []PlayerInfo `json:"players"`
}

type JoinErrorPayload struct {
	Message string `json:"message"`
}

type PlayerInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position int    `json:"position"` // Seat at the table (0-2)
}

type GameStartPayload struct {
	TableID string       `json:"table_id"`
	Players []PlayerInfo `json:"players"`
}

// DealHandPayload is sent privately to each player after the cards are dealt.
type DealHandPayload struct {
	DealID     string             `json:"deal_id"`
	Position   int                `json:"position"`
	FirstToAct int                `json:"first_to_act"`
	Hand       []shared.Card      `json:"hand"`
	Points     int                `json:"points"`
	Evaluation bidding.Evaluation `json:"evaluation"`
}

type PlayerBid struct {
	PlayerID string `json:"player_id"`
	Position int    `json:"position"`
	MaxBid   int    `json:"max_bid"`
}

type BiddingResultPayload struct {
	DealID          string          `json:"deal_id"`
	Passed          bool            `json:"passed"` // Every player passed
	PlayingPlayerID string          `json:"playing_player_id,omitempty"`
	Position        int             `json:"position"`
	Bid             int             `json:"bid"`
	GameType        shared.GameType `json:"game_type"`
	Bids            []PlayerBid     `json:"bids"`
}

type SkatPayload struct {
	DealID string        `json:"deal_id"`
	Cards  []shared.Card `json:"cards"`
}

type GameOverPayload struct {
	TableID string `json:"table_id"`
	Deals   int    `json:"deals"`
	Reason  string `json:"reason"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

type PlayerLeftPayload struct {
	PlayerID string `json:"player_id"`
}

// Helper function to create a JSON message
func NewMessage(msgType string, payload interface{}) ([]byte, error) {
	// Handle nil payload specifically
	if payload == nil {
		msg := Message{
			Type:    msgType,
			Payload: nil,
		}
		return json.Marshal(msg)
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	msg := Message{
		Type:    msgType,
		Payload: payloadBytes,
	}
	return json.Marshal(msg)
}
