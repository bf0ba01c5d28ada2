package game

import (
	"math/rand"

	"github.com/tinytelemetry/pairs/internal/model"
)

// NewDeck returns the unshuffled deck: IDs 2i and 2i+1 carry Symbols[i].
func NewDeck() []model.Card {
	deck := make([]model.Card, 0, model.DeckSize)
	for i, sym := range model.Symbols {
		deck = append(deck,
			model.Card{ID: i * 2, Symbol: sym},
			model.Card{ID: i*2 + 1, Symbol: sym},
		)
	}
	return deck
}

// ShuffleDeck returns a uniformly shuffled copy of deck.
func ShuffleDeck(rng *rand.Rand, deck []model.Card) []model.Card {
	out := make([]model.Card, len(deck))
	copy(out, deck)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
