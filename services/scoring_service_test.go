package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/smashpoint/badminton-league/models"
)

func testCompletedSet(number, s1, s2, winner int) models.Set {
	now := time.Now()
	return models.Set{
		SetNumber:   number,
		Side1Score:  s1,
		Side2Score:  s2,
		IsComplete:  true,
		WinningSide: &winner,
		CompletedAt: &now,
	}
}

func testOpenSet(number, s1, s2 int) models.Set {
	return models.Set{SetNumber: number, Side1Score: s1, Side2Score: s2}
}

func TestRecordSetScoreInputValidation(t *testing.T) {
	svc := NewScoringService(nil, nil, nil, nil, nil, nil, nil)

	tests := []struct {
		name    string
		input   RecordScoreInput
		wantErr error
	}{
		{"negative score", RecordScoreInput{MatchID: 1, SetNumber: 1, Side1Score: -1, Side2Score: 0}, ErrInvalidScore},
		{"score above cap", RecordScoreInput{MatchID: 1, SetNumber: 1, Side1Score: 31, Side2Score: 0}, ErrInvalidScore},
		{"set number zero", RecordScoreInput{MatchID: 1, SetNumber: 0, Side1Score: 5, Side2Score: 5}, ErrInvalidSetNumber},
		{"set number four", RecordScoreInput{MatchID: 1, SetNumber: 4, Side1Score: 5, Side2Score: 5}, ErrInvalidSetNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordSetScore(context.Background(), tt.input, 1)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RecordSetScore() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateScoreReport(t *testing.T) {
	tests := []struct {
		name      string
		status    models.MatchStatus
		sets      []models.Set
		setNumber int
		wantErr   error
	}{
		{
			name:      "first report on scheduled match",
			status:    models.MatchStatusScheduled,
			sets:      []models.Set{testOpenSet(1, 0, 0)},
			setNumber: 1,
		},
		{
			name:      "live match current set",
			status:    models.MatchStatusLive,
			sets:      []models.Set{testOpenSet(1, 11, 7)},
			setNumber: 1,
		},
		{
			name:      "completed match rejects reports",
			status:    models.MatchStatusCompleted,
			sets:      []models.Set{testCompletedSet(1, 21, 15, 1), testCompletedSet(2, 21, 18, 1)},
			setNumber: 2,
			wantErr:   ErrMatchFinished,
		},
		{
			name:      "cancelled match rejects reports",
			status:    models.MatchStatusCancelled,
			sets:      []models.Set{testOpenSet(1, 5, 5)},
			setNumber: 1,
			wantErr:   ErrMatchFinished,
		},
		{
			name:      "completed set cannot be rewritten",
			status:    models.MatchStatusLive,
			sets:      []models.Set{testCompletedSet(1, 21, 15, 1), testOpenSet(2, 3, 3)},
			setNumber: 1,
			wantErr:   ErrSetAlreadyComplete,
		},
		{
			name:      "cannot skip ahead to a later set",
			status:    models.MatchStatusLive,
			sets:      []models.Set{testOpenSet(1, 11, 7)},
			setNumber: 2,
			wantErr:   ErrWrongSet,
		},
		{
			name:      "new set after both created sets are done",
			status:    models.MatchStatusLive,
			sets:      []models.Set{testCompletedSet(1, 21, 15, 1), testCompletedSet(2, 18, 21, 2)},
			setNumber: 3,
		},
		{
			name:      "split match requires the decider",
			status:    models.MatchStatusLive,
			sets:      []models.Set{testCompletedSet(1, 21, 15, 1), testCompletedSet(2, 18, 21, 2)},
			setNumber: 2,
			wantErr:   ErrSetAlreadyComplete,
		},
		{
			name:   "no fourth set after three completed",
			status: models.MatchStatusLive,
			sets: []models.Set{
				testCompletedSet(1, 21, 15, 1),
				testCompletedSet(2, 18, 21, 2),
				testCompletedSet(3, 21, 19, 1),
			},
			setNumber: 3,
			wantErr:   ErrSetAlreadyComplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateScoreReport(tt.status, tt.sets, tt.setNumber)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("validateScoreReport() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("validateScoreReport() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateScoreReportWrongSetNamesExpected(t *testing.T) {
	sets := []models.Set{testCompletedSet(1, 21, 15, 1), testOpenSet(2, 0, 0)}
	err := validateScoreReport(models.MatchStatusLive, sets, 3)
	if !errors.Is(err, ErrWrongSet) {
		t.Fatalf("validateScoreReport() error = %v, want %v", err, ErrWrongSet)
	}
	if !strings.Contains(err.Error(), "set 2") {
		t.Errorf("error %q should name the expected set", err.Error())
	}
}
