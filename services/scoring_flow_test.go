package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"

	"github.com/smashpoint/badminton-league/models"
	"github.com/smashpoint/badminton-league/repositories"
)

// noopDriver backs a *sql.DB whose transactions are no-ops. Score flow tests
// fake the repositories, so the only traffic the DB sees is Begin, Commit and
// Rollback.
type noopDriver struct{}

func (noopDriver) Open(string) (driver.Conn, error) { return noopConn{}, nil }

type noopConn struct{}

func (noopConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (noopConn) Close() error                        { return nil }
func (noopConn) Begin() (driver.Tx, error)           { return noopTx{}, nil }

type noopTx struct{}

func (noopTx) Commit() error   { return nil }
func (noopTx) Rollback() error { return nil }

var registerNoopDriver sync.Once

func newNoopDB(t *testing.T) *sql.DB {
	t.Helper()
	registerNoopDriver.Do(func() {
		sql.Register("noop", noopDriver{})
	})
	db, err := sql.Open("noop", "")
	if err != nil {
		t.Fatalf("open noop db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// fakeScoreMatchRepo holds a single match and records status writes.
type fakeScoreMatchRepo struct {
	repositories.MatchRepository
	match *models.Match
}

func (f *fakeScoreMatchRepo) GetByIDForUpdate(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	if f.match == nil || f.match.ID != id {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *f.match
	return &copied, nil
}

func (f *fakeScoreMatchRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.MatchStatus) error {
	f.match.Status = status
	return nil
}

func (f *fakeScoreMatchRepo) UpdateStatusWinner(ctx context.Context, exec repositories.SQLExecutor, id int, status models.MatchStatus, winningSide int) error {
	f.match.Status = status
	side := winningSide
	f.match.WinningSide = &side
	return nil
}

type fakeScoreSetRepo struct {
	repositories.SetRepository
	sets   []models.Set
	nextID int
}

func (f *fakeScoreSetRepo) ListByMatch(ctx context.Context, exec repositories.SQLExecutor, matchID int) ([]models.Set, error) {
	out := make([]models.Set, 0, len(f.sets))
	for _, s := range f.sets {
		if s.MatchID == matchID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeScoreSetRepo) Create(ctx context.Context, exec repositories.SQLExecutor, set *models.Set) error {
	f.nextID++
	set.ID = f.nextID
	f.sets = append(f.sets, *set)
	return nil
}

func (f *fakeScoreSetRepo) Update(ctx context.Context, exec repositories.SQLExecutor, set *models.Set) error {
	for i := range f.sets {
		if f.sets[i].MatchID == set.MatchID && f.sets[i].SetNumber == set.SetNumber {
			f.sets[i] = *set
			return nil
		}
	}
	return errors.New("set not found")
}

// fakeMatchLoader stands in for the match service's GetMatch used to build
// the broadcast payload after commit.
type fakeMatchLoader struct {
	MatchService
	matchRepo *fakeScoreMatchRepo
	setRepo   *fakeScoreSetRepo
}

func (f *fakeMatchLoader) GetMatch(ctx context.Context, matchID, currentUserID int) (*models.Match, error) {
	m := *f.matchRepo.match
	m.Sets = append([]models.Set(nil), f.setRepo.sets...)
	return &m, nil
}

type scoreFlowFixture struct {
	svc       ScoringService
	matchRepo *fakeScoreMatchRepo
	setRepo   *fakeScoreSetRepo
}

func newScoreFlowFixture(t *testing.T) *scoreFlowFixture {
	t.Helper()

	matchRepo := &fakeScoreMatchRepo{
		match: &models.Match{ID: 100, TeamID: 1, Type: models.MatchTypeSingles, Status: models.MatchStatusScheduled},
	}
	setRepo := &fakeScoreSetRepo{
		sets:   []models.Set{{ID: 1, MatchID: 100, SetNumber: 1}},
		nextID: 1,
	}
	teamRepo := &fakeTeamRepo{
		members: map[int]*models.TeamMember{
			10: {ID: 1, TeamID: 1, UserID: 10, Role: models.RoleMember},
		},
	}
	loader := &fakeMatchLoader{matchRepo: matchRepo, setRepo: setRepo}

	svc := NewScoringService(newNoopDB(t), matchRepo, setRepo, teamRepo, loader, nil, nil)
	return &scoreFlowFixture{svc: svc, matchRepo: matchRepo, setRepo: setRepo}
}

func (fx *scoreFlowFixture) report(t *testing.T, setNumber, s1, s2 int) *ScoreResult {
	t.Helper()
	result, err := fx.svc.RecordSetScore(context.Background(), RecordScoreInput{
		MatchID:    100,
		SetNumber:  setNumber,
		Side1Score: s1,
		Side2Score: s2,
	}, 10)
	if err != nil {
		t.Fatalf("RecordSetScore(set %d, %d-%d) error: %v", setNumber, s1, s2, err)
	}
	return result
}

func TestRecordSetScoreStraightSetsWin(t *testing.T) {
	fx := newScoreFlowFixture(t)

	result := fx.report(t, 1, 21, 15)
	if fx.matchRepo.match.Status != models.MatchStatusLive {
		t.Errorf("after first report status = %s, want LIVE", fx.matchRepo.match.Status)
	}
	if result.Set == nil || !result.Set.IsComplete || result.Set.WinningSide == nil || *result.Set.WinningSide != 1 {
		t.Fatalf("set 1 should be complete with side 1 winning, got %+v", result.Set)
	}
	if len(fx.setRepo.sets) != 2 || fx.setRepo.sets[1].SetNumber != 2 {
		t.Fatalf("completing set 1 should open set 2, sets = %+v", fx.setRepo.sets)
	}

	result = fx.report(t, 2, 21, 18)
	if fx.matchRepo.match.Status != models.MatchStatusCompleted {
		t.Errorf("after two set wins status = %s, want COMPLETED", fx.matchRepo.match.Status)
	}
	if fx.matchRepo.match.WinningSide == nil || *fx.matchRepo.match.WinningSide != 1 {
		t.Errorf("winning side = %v, want 1", fx.matchRepo.match.WinningSide)
	}
	if len(fx.setRepo.sets) != 2 {
		t.Errorf("a decided match must not open set 3, sets = %+v", fx.setRepo.sets)
	}
	if result.Match == nil || len(result.Match.Sets) != 2 {
		t.Errorf("result should carry the refreshed match with its sets, got %+v", result.Match)
	}

	_, err := fx.svc.RecordSetScore(context.Background(), RecordScoreInput{MatchID: 100, SetNumber: 3, Side1Score: 1, Side2Score: 0}, 10)
	if !errors.Is(err, ErrMatchFinished) {
		t.Errorf("report on completed match error = %v, want %v", err, ErrMatchFinished)
	}
}

func TestRecordSetScoreThreeSetDecider(t *testing.T) {
	fx := newScoreFlowFixture(t)

	fx.report(t, 1, 21, 15)
	fx.report(t, 2, 19, 21)

	if fx.matchRepo.match.Status != models.MatchStatusLive {
		t.Fatalf("split sets should leave the match LIVE, status = %s", fx.matchRepo.match.Status)
	}
	if len(fx.setRepo.sets) != 3 || fx.setRepo.sets[2].SetNumber != 3 {
		t.Fatalf("split sets should open the decider, sets = %+v", fx.setRepo.sets)
	}

	_, err := fx.svc.RecordSetScore(context.Background(), RecordScoreInput{MatchID: 100, SetNumber: 1, Side1Score: 21, Side2Score: 19}, 10)
	if !errors.Is(err, ErrSetAlreadyComplete) {
		t.Errorf("rewriting a completed set error = %v, want %v", err, ErrSetAlreadyComplete)
	}

	fx.report(t, 3, 22, 20)
	if fx.matchRepo.match.Status != models.MatchStatusCompleted {
		t.Errorf("status = %s, want COMPLETED", fx.matchRepo.match.Status)
	}
	if fx.matchRepo.match.WinningSide == nil || *fx.matchRepo.match.WinningSide != 1 {
		t.Errorf("winning side = %v, want 1", fx.matchRepo.match.WinningSide)
	}
}

func TestRecordSetScorePartialThenComplete(t *testing.T) {
	fx := newScoreFlowFixture(t)

	result := fx.report(t, 1, 11, 8)
	if result.Set.IsComplete {
		t.Error("mid-set report must not complete the set")
	}
	if len(fx.setRepo.sets) != 1 {
		t.Errorf("mid-set report must not open set 2, sets = %+v", fx.setRepo.sets)
	}
	if fx.matchRepo.match.Status != models.MatchStatusLive {
		t.Errorf("status = %s, want LIVE", fx.matchRepo.match.Status)
	}

	fx.report(t, 1, 21, 15)
	if len(fx.setRepo.sets) != 2 {
		t.Errorf("finishing set 1 should open set 2, sets = %+v", fx.setRepo.sets)
	}
}

func TestRecordSetScoreRejections(t *testing.T) {
	t.Run("unknown match", func(t *testing.T) {
		fx := newScoreFlowFixture(t)
		_, err := fx.svc.RecordSetScore(context.Background(), RecordScoreInput{MatchID: 999, SetNumber: 1, Side1Score: 1, Side2Score: 0}, 10)
		if !errors.Is(err, ErrMatchNotFound) {
			t.Errorf("error = %v, want %v", err, ErrMatchNotFound)
		}
	})

	t.Run("non-member cannot report", func(t *testing.T) {
		fx := newScoreFlowFixture(t)
		_, err := fx.svc.RecordSetScore(context.Background(), RecordScoreInput{MatchID: 100, SetNumber: 1, Side1Score: 21, Side2Score: 15}, 999)
		if !errors.Is(err, ErrNotTeamMember) {
			t.Errorf("error = %v, want %v", err, ErrNotTeamMember)
		}
		if fx.matchRepo.match.Status != models.MatchStatusScheduled {
			t.Errorf("rejected report must not change status, got %s", fx.matchRepo.match.Status)
		}
		if fx.setRepo.sets[0].Side1Score != 0 || fx.setRepo.sets[0].Side2Score != 0 {
			t.Errorf("rejected report must not touch scores, got %+v", fx.setRepo.sets[0])
		}
	})

	t.Run("skipping ahead leaves state untouched", func(t *testing.T) {
		fx := newScoreFlowFixture(t)
		_, err := fx.svc.RecordSetScore(context.Background(), RecordScoreInput{MatchID: 100, SetNumber: 2, Side1Score: 5, Side2Score: 5}, 10)
		if !errors.Is(err, ErrWrongSet) {
			t.Errorf("error = %v, want %v", err, ErrWrongSet)
		}
		if fx.matchRepo.match.Status != models.MatchStatusScheduled {
			t.Errorf("rejected report must not change status, got %s", fx.matchRepo.match.Status)
		}
		if len(fx.setRepo.sets) != 1 {
			t.Errorf("rejected report must not create sets, got %+v", fx.setRepo.sets)
		}
	})
}
