package database

type DealResult struct {
	ID            string `json:"id"`
	CreatedAt     string `json:"created_at"`
	TableID       string `json:"table_id"`
	Player1       string `json:"player1"`
	Player2       string `json:"player2"`
	Player3       string `json:"player3"`
	FirstToAct    int    `json:"first_to_act"`
	PlayingPlayer string `json:"playing_player"` // empty when everybody passed
	BidValue      int    `json:"bid_value"`
	GameType      string `json:"game_type"`
	Skat          string `json:"skat"` // cards in notation, e.g. "KB, C7"
}
