// Package scoring holds the badminton rules the match engine is built on:
// when a set is won, when a best-of-three match is decided, and which set a
// score report may target. Everything here is a pure function of its inputs.
package scoring

import "github.com/smashpoint/badminton-league/models"

const (
	// MaxSets is the best-of-three cap on sets per match.
	MaxSets = 3
	// MaxScore is the hard point cap: the first side to reach it wins the
	// set outright, margin or not.
	MaxScore = 30
	// WinningScore is the regular target; winning at it requires a
	// two-point margin, which is where deuce play comes from.
	WinningScore = 21
)

// SetWinner reports which side has won a set at the given scores: 1 or 2,
// or 0 while the set is still in progress. 21-20 and 22-21 are not wins
// (margin of one), 30-29 is (cap rule).
func SetWinner(side1Score, side2Score int) int {
	hi := side1Score
	if side2Score > hi {
		hi = side2Score
	}
	if hi < WinningScore {
		return 0
	}

	if side1Score >= MaxScore {
		return 1
	}
	if side2Score >= MaxScore {
		return 2
	}

	if side1Score >= WinningScore && side1Score-side2Score >= 2 {
		return 1
	}
	if side2Score >= WinningScore && side2Score-side1Score >= 2 {
		return 2
	}
	return 0
}

// MatchWinner reports the winner of a best-of-three match given all its
// sets: the first side with two completed set wins, or 0 while undecided.
func MatchWinner(sets []models.Set) int {
	var side1Wins, side2Wins int
	for i := range sets {
		if !sets[i].IsComplete || sets[i].WinningSide == nil {
			continue
		}
		switch *sets[i].WinningSide {
		case 1:
			side1Wins++
		case 2:
			side2Wins++
		}
	}

	if side1Wins >= 2 {
		return 1
	}
	if side2Wins >= 2 {
		return 2
	}
	return 0
}

// ExpectedSetNumber returns the only set number a score report may target:
// the lone incomplete set if one exists, otherwise the next set after the
// highest one created. The result can exceed MaxSets, which callers must
// reject as "all sets complete".
func ExpectedSetNumber(sets []models.Set) int {
	maxSetNumber := 0
	for i := range sets {
		if !sets[i].IsComplete {
			return sets[i].SetNumber
		}
		if sets[i].SetNumber > maxSetNumber {
			maxSetNumber = sets[i].SetNumber
		}
	}
	return maxSetNumber + 1
}
