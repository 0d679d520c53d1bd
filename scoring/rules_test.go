package scoring

import (
	"testing"
	"time"

	"github.com/smashpoint/badminton-league/models"
)

func TestSetWinner(t *testing.T) {
	tests := []struct {
		name       string
		side1Score int
		side2Score int
		want       int
	}{
		{"in progress early", 10, 8, 0},
		{"nobody at target", 19, 15, 0},
		{"side1 clean win", 21, 15, 1},
		{"side1 two point margin", 21, 19, 1},
		{"side2 two point margin", 20, 22, 2},
		{"one point margin is not a win", 21, 20, 0},
		{"deuce continues", 22, 21, 0},
		{"deuce resolved", 22, 20, 1},
		{"side2 in deuce", 23, 25, 2},
		{"cap win for side2", 29, 30, 2},
		{"cap win for side1", 30, 29, 1},
		{"side2 reaches target first check", 20, 21, 0},
		{"zero zero", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SetWinner(tt.side1Score, tt.side2Score); got != tt.want {
				t.Errorf("SetWinner(%d, %d) = %d, want %d", tt.side1Score, tt.side2Score, got, tt.want)
			}
		})
	}
}

func completedSet(number, s1, s2 int) models.Set {
	winner := SetWinner(s1, s2)
	now := time.Now()
	return models.Set{
		SetNumber:   number,
		Side1Score:  s1,
		Side2Score:  s2,
		IsComplete:  winner != 0,
		WinningSide: &winner,
		CompletedAt: &now,
	}
}

func inProgressSet(number, s1, s2 int) models.Set {
	return models.Set{SetNumber: number, Side1Score: s1, Side2Score: s2}
}

func TestMatchWinner(t *testing.T) {
	tests := []struct {
		name string
		sets []models.Set
		want int
	}{
		{"no sets", nil, 0},
		{"one set done", []models.Set{completedSet(1, 21, 15)}, 0},
		{"straight sets side1", []models.Set{completedSet(1, 21, 15), completedSet(2, 21, 18)}, 1},
		{"straight sets side2", []models.Set{completedSet(1, 15, 21), completedSet(2, 19, 21)}, 2},
		{"split after two", []models.Set{completedSet(1, 21, 15), completedSet(2, 18, 21)}, 0},
		{"decider to side2", []models.Set{
			completedSet(1, 21, 15),
			completedSet(2, 18, 21),
			completedSet(3, 19, 21),
		}, 2},
		{"incomplete set ignored", []models.Set{
			completedSet(1, 21, 15),
			inProgressSet(2, 20, 18),
		}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchWinner(tt.sets); got != tt.want {
				t.Errorf("MatchWinner() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExpectedSetNumber(t *testing.T) {
	tests := []struct {
		name string
		sets []models.Set
		want int
	}{
		{"no sets yet", nil, 1},
		{"first set in progress", []models.Set{inProgressSet(1, 5, 3)}, 1},
		{"first set done and second open", []models.Set{
			completedSet(1, 21, 15),
			inProgressSet(2, 0, 0),
		}, 2},
		{"all created sets done", []models.Set{
			completedSet(1, 21, 15),
			completedSet(2, 18, 21),
		}, 3},
		{"match over, next would exceed cap", []models.Set{
			completedSet(1, 21, 15),
			completedSet(2, 18, 21),
			completedSet(3, 21, 19),
		}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpectedSetNumber(tt.sets); got != tt.want {
				t.Errorf("ExpectedSetNumber() = %d, want %d", got, tt.want)
			}
		})
	}
}
