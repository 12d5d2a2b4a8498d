package shared

// GameType is the Skat game a player announces. The zero value means no game.
type GameType string

const (
	GameNone     GameType = ""
	GameGrand    GameType = "Grand"
	GameClubs    GameType = "Clubs"
	GameSpades   GameType = "Spades"
	GameHearts   GameType = "Hearts"
	GameDiamonds GameType = "Diamonds"
	GameNull     GameType = "Null"
	GameRamsch   GameType = "Ramsch"
)

// GameTypeFromSuit returns the suit game played with s as trump.
func GameTypeFromSuit(s Suit) GameType {
	switch s {
	case Clubs:
		return GameClubs
	case Spades:
		return GameSpades
	case Hearts:
		return GameHearts
	case Diamonds:
		return GameDiamonds
	}
	return GameNone
}

func (g GameType) String() string {
	if g == GameNone {
		return "None"
	}
	return string(g)
}
