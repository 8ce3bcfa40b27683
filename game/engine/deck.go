package engine

import "math/rand/v2"

// DefaultSymbols is the ordered symbol catalog; boards use a prefix of it
var DefaultSymbols = []string{
	"🐶", "🐱", "🐭", "🐹", "🐰", "🦊", "🐻", "🐼",
	"🐨", "🐯", "🦁", "🐮", "🐷", "🐸", "🐵", "🐔",
	"🐧", "🐦", "🐤", "🦄", "🦋", "🐙", "🐠", "🐳",
}

// Deck is the ordered sequence of symbols behind the tiles
type Deck []string

// GenerateDeck builds a shuffled deck of boardSize symbols using the first
// boardSize/2 entries of the catalog, each twice.
// The catalog must hold at least boardSize/2 symbols.
func GenerateDeck(boardSize int, catalog []string, rng *rand.Rand) Deck {
	pairs := boardSize / 2
	chosen := catalog[:pairs]

	deck := make(Deck, 0, pairs*2)
	deck = append(deck, chosen...)
	deck = append(deck, chosen...)

	deck.Shuffle(rng)
	return deck
}

// Shuffle permutes the deck in place (Fisher-Yates, last index down to 1)
func (d Deck) Shuffle(rng *rand.Rand) {
	for i := len(d) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		d[i], d[j] = d[j], d[i]
	}
}

// Counts returns how many times each symbol occurs
func (d Deck) Counts() map[string]int {
	counts := make(map[string]int, len(d)/2)
	for _, s := range d {
		counts[s]++
	}
	return counts
}

// IsPairBalanced reports whether every symbol occurs exactly twice
func (d Deck) IsPairBalanced() bool {
	if len(d)%2 != 0 {
		return false
	}
	for _, n := range d.Counts() {
		if n != 2 {
			return false
		}
	}
	return true
}

// NewRand returns a PCG-backed source; seed 0 draws a random seed
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
