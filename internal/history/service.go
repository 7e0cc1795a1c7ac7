package history

import (
	"context"
	"fmt"

	"github.com/modena-retail/backoffice-backend/pkg/db/models"
	pkgerrors "github.com/modena-retail/backoffice-backend/pkg/errors"
	"github.com/modena-retail/backoffice-backend/pkg/pagination"
)

// Service exposes read access to the history ledger.
type Service interface {
	List(ctx context.Context, input ListInput) (*ListResult, error)
	ListByTransactionID(ctx context.Context, transactionID string) ([]models.HistoryEntry, error)
}

// ListInput carries listing filters and cursor pagination parameters.
type ListInput struct {
	CollectionName string
	TransactionID  string
	Operation      string
	Limit          int
	Cursor         string
}

// ListResult is one page of history entries plus the cursor for the next.
type ListResult struct {
	Entries    []models.HistoryEntry `json:"entries"`
	NextCursor string                `json:"nextCursor,omitempty"`
	HasMore    bool                  `json:"hasMore"`
}

type service struct {
	repo Repository
}

// NewService wires a history service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("history repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(input.Limit)
	entries, err := s.repo.List(ctx, ListFilter{
		CollectionName: input.CollectionName,
		TransactionID:  input.TransactionID,
		Operation:      input.Operation,
	}, cursor, pagination.LimitWithBuffer(input.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list history")
	}

	result := &ListResult{Entries: entries}
	if len(entries) > limit {
		result.Entries = entries[:limit]
		result.HasMore = true
		last := result.Entries[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			Timestamp: last.Timestamp,
			ID:        last.ID,
		})
	}
	return result, nil
}

func (s *service) ListByTransactionID(ctx context.Context, transactionID string) ([]models.HistoryEntry, error) {
	if transactionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction id is required")
	}
	entries, err := s.repo.ListByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list history by transaction")
	}
	return entries, nil
}
