package service

import (
	"math/rand"
	"time"

	"github.com/aliskhannn/guess-the-flag-bot/internal/domain/entities"
)

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// ShuffleOptions returns a copy of the questions with each question's options
// independently permuted. The input is not modified.
func ShuffleOptions(questions []entities.Question, r *rand.Rand) []entities.Question {
	shuffled := entities.CloneQuestions(questions)

	for i := range shuffled {
		opts := shuffled[i].Options
		// rand.Shuffle is a Fisher-Yates shuffle, every permutation is equally likely.
		r.Shuffle(len(opts), func(a, b int) {
			opts[a], opts[b] = opts[b], opts[a]
		})
	}

	return shuffled
}
