// Command deal shuffles a Skat deck, deals it and prints how the automatic
// bidding resolves.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"skat-game/internal/game"
	"skat-game/internal/shared"
)

func main() {
	seed := flag.Uint64("seed", 0, "shuffle seed, 0 picks one from the clock")
	first := flag.Int("first", 0, "seat that bids first (0, 1 or 2)")
	deals := flag.Int("n", 1, "number of deals; the first seat rotates after each")
	flag.Parse()

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	if *deals < 1 {
		log.Fatalf("-n must be at least 1, got %d", *deals)
	}
	rng := rand.New(rand.NewPCG(*seed, *seed>>1|1))
	fmt.Printf("Seed: %d\n", *seed)

	firstToAct := *first
	for i := 0; i < *deals; i++ {
		if err := playDeal(rng, firstToAct); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		firstToAct = (firstToAct + 1) % 3
	}
}

func playDeal(rng *rand.Rand, firstToAct int) error {
	deck := shared.NewDeck()
	deck.Shuffle(rng)
	deal, err := game.DealFromDeck(firstToAct, deck)
	if err != nil {
		return err
	}

	fmt.Printf("\nDeal %s, player %d bids first\n", deal.ID, firstToAct+1)
	for _, hand := range deal.Players() {
		hand.Sort()
		suit, count, points := hand.DisplayTrump()
		fmt.Println(hand)
		fmt.Printf("  %d points, %d jacks, longest suit %s (%d cards, %d points), bids up to %d\n",
			hand.TotalPoints(), hand.JackCount(), suit, count, points, hand.MaxBid())
	}
	fmt.Println(deal.Skat())

	withoutSkat, withSkat := deal.FourJacks()
	switch {
	case withoutSkat:
		fmt.Println("One player holds all four jacks.")
	case withSkat:
		fmt.Println("All four jacks are in one hand once the skat is added.")
	}

	seat, ok := deal.ResolveBidding()
	if !ok {
		fmt.Println("Everybody passes.")
		return nil
	}
	winner := deal.Player(seat)
	fmt.Printf("%s plays %s at %d.\n", winner.Name(), winner.GameType(), winner.CurrentBid())
	return nil
}
