package services

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/printdesk/internal/common"
	"github.com/dmitrijs2005/printdesk/internal/dbx"
	"github.com/dmitrijs2005/printdesk/internal/server/models"
	"github.com/dmitrijs2005/printdesk/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// RecordSpec carries the caller-supplied fields of a new ledger entry.
// The breakdown is advisory and opaque to the ledger; its parts are never
// reconciled against the amount.
type RecordSpec struct {
	Type       models.TransactionType `json:"type"`
	TaskID     string                 `json:"task_id"`
	SessionRef string                 `json:"session_ref"`
	Amount     float64                `json:"amount"`
	Actor      string                 `json:"actor"`
	Breakdown  models.Breakdown       `json:"breakdown"`
}

// LedgerService owns the append-only transaction ledger. Balances are always
// computed by summation, never stored, so the ledger is the single source of
// truth for account state.
type LedgerService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	fanout      *FanoutService
}

// NewLedgerService constructs a LedgerService.
func NewLedgerService(db *sql.DB, m repomanager.RepositoryManager, fanout *FanoutService) *LedgerService {
	return &LedgerService{db: db, repomanager: m, fanout: fanout}
}

// Record validates and appends a ledger entry, then notifies the actor.
func (s *LedgerService) Record(ctx context.Context, spec RecordSpec) (*models.Transaction, error) {
	created, err := s.record(ctx, s.db, spec)
	if err != nil {
		return nil, err
	}
	s.announce(ctx, created)
	return created, nil
}

// record appends a ledger entry using the given handle, so a caller holding
// a transaction can bundle the write with its own. The event is not published
// here; announce it once the surrounding work has committed.
func (s *LedgerService) record(ctx context.Context, db dbx.DBTX, spec RecordSpec) (*models.Transaction, error) {
	if spec.Actor == "" {
		return nil, fmt.Errorf("%w: actor is required", common.ErrValidation)
	}
	if spec.Type == "" {
		return nil, fmt.Errorf("%w: type is required", common.ErrValidation)
	}
	if math.IsNaN(spec.Amount) || math.IsInf(spec.Amount, 0) {
		return nil, fmt.Errorf("%w: amount must be finite", common.ErrValidation)
	}

	entry := &models.Transaction{
		ID:         uuid.New().String(),
		Type:       spec.Type,
		TaskID:     spec.TaskID,
		SessionRef: spec.SessionRef,
		Amount:     spec.Amount,
		Actor:      spec.Actor,
		Breakdown:  spec.Breakdown,
		CreatedAt:  time.Now(),
	}

	return s.repomanager.Transactions(db).Create(ctx, entry)
}

// announce publishes a recorded entry to the actor's event stream.
func (s *LedgerService) announce(ctx context.Context, created *models.Transaction) {
	s.fanout.Publish(ctx, &models.Event{
		Type:   models.EventLedgerRecorded,
		Scope:  models.EventScopeActor,
		Target: created.Actor,
		TaskID: created.TaskID,
		Actor:  created.Actor,
		Amount: created.Amount,
	})
}

// BalanceFor returns the signed sum of the actor's ledger entries.
func (s *LedgerService) BalanceFor(ctx context.Context, actor string) (float64, error) {
	repo := s.repomanager.Transactions(s.db)
	return repo.SumByActor(ctx, actor)
}

// History returns the actor's ledger entries, oldest first.
func (s *LedgerService) History(ctx context.Context, actor string) ([]*models.Transaction, error) {
	repo := s.repomanager.Transactions(s.db)
	return repo.ListByActor(ctx, actor)
}
