package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"skat-game/internal/bidding"
	"skat-game/internal/database"
	"skat-game/internal/game"
	"skat-game/internal/shared"
)

// maxEvaluateCards is a hand after picking up the skat.
const maxEvaluateCards = shared.HandSize + shared.SkatSize

// DealStore is the read side of the deal database.
type DealStore interface {
	GetAll() ([]database.DealResult, error)
	GetByID(id string) (database.DealResult, error)
	GetByPlayer(name string) ([]database.DealResult, error)
}

type trumpInfo struct {
	Suit   shared.Suit `json:"suit"`
	Count  int         `json:"count"`
	Points int         `json:"points"`
}

type evaluateResponse struct {
	Cards        []shared.Card      `json:"cards"`
	Points       int                `json:"points"`
	Jacks        int                `json:"jacks"`
	Evaluation   bidding.Evaluation `json:"evaluation"`
	GameType     shared.GameType    `json:"game_type"`
	DisplayTrump trumpInfo          `json:"display_trump"`
}

func HandleRoutes(mux *http.ServeMux, db DealStore) {
	mux.HandleFunc("GET /api/deals/player/{name}", func(w http.ResponseWriter, r *http.Request) {
		GetDealsByPlayerHandler(db, w, r)
	})
	log.Println("Registered route: /api/deals/player/{name}")

	mux.HandleFunc("GET /api/deals/{id}", func(w http.ResponseWriter, r *http.Request) {
		GetDealHandler(db, w, r)
	})
	log.Println("Registered route: /api/deals/{id}")

	mux.HandleFunc("GET /api/deals", func(w http.ResponseWriter, r *http.Request) {
		GetDealsHandler(db, w, r)
	})
	log.Println("Registered route: /api/deals")

	mux.HandleFunc("GET /api/evaluate", EvaluateHandler)
	log.Println("Registered route: /api/evaluate")
}

func GetDealsByPlayerHandler(db DealStore, w http.ResponseWriter, r *http.Request) {
	player := r.PathValue("name")
	if player == "" {
		http.Error(w, "Player name is required", http.StatusBadRequest)
		return
	}

	results, err := db.GetByPlayer(player)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "No deals found for player", http.StatusNotFound)
			return
		}
		log.Printf("Error fetching deals for player %s: %v", player, err)
		http.Error(w, "Failed to fetch deals", http.StatusInternalServerError)
		return
	}

	writeJSON(w, results)
}

func GetDealHandler(db DealStore, w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	result, err := db.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Deal not found", http.StatusNotFound)
			return
		}
		log.Printf("Error fetching deal %s: %v", id, err)
		http.Error(w, "Failed to fetch deal", http.StatusInternalServerError)
		return
	}

	writeJSON(w, result)
}

func GetDealsHandler(db DealStore, w http.ResponseWriter, r *http.Request) {
	results, err := db.GetAll()
	if err != nil {
		log.Printf("Error fetching deals: %v", err)
		http.Error(w, "Failed to fetch deals", http.StatusInternalServerError)
		return
	}
	if results == nil {
		results = []database.DealResult{}
	}

	writeJSON(w, results)
}

// EvaluateHandler values the hand given as ?cards=KB,PA,H7,... without a deal.
func EvaluateHandler(w http.ResponseWriter, r *http.Request) {
	cards, err := shared.ParseCards(r.URL.Query().Get("cards"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(cards) > maxEvaluateCards {
		http.Error(w, "A hand holds at most 12 cards", http.StatusBadRequest)
		return
	}
	seen := make(map[shared.Card]bool, len(cards))
	for _, c := range cards {
		if seen[c] {
			http.Error(w, "Duplicate card "+c.String(), http.StatusBadRequest)
			return
		}
		seen[c] = true
	}

	hand := game.NewHand("Query", cards)
	suit, count, points := hand.DisplayTrump()
	evaluation := hand.Evaluation()
	writeJSON(w, evaluateResponse{
		Cards:        hand.Cards(),
		Points:       hand.TotalPoints(),
		Jacks:        hand.JackCount(),
		Evaluation:   evaluation,
		GameType:     evaluation.GameType(),
		DisplayTrump: trumpInfo{Suit: suit, Count: count, Points: points},
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}
