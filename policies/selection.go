package policies

import (
	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// TournamentSelector samples Size individuals without replacement and keeps
// the fittest.
type TournamentSelector struct {
	Size int
	src  erand.Source
}

func NewTournamentSelector(size int, src erand.Source) *TournamentSelector {
	return &TournamentSelector{Size: size, src: src}
}

// Select returns the index of the winner. Ties go to the contender sampled first.
func (t *TournamentSelector) Select(fitness []float64) int {
	n := len(fitness)
	k := t.Size
	if k > n {
		k = n
	}
	if k < 1 {
		k = 1
	}
	idxs := make([]int, k)
	sampleuv.WithoutReplacement(idxs, n, t.src)

	winner := idxs[0]
	for _, i := range idxs[1:] {
		if fitness[i] > fitness[winner] {
			winner = i
		}
	}
	return winner
}
