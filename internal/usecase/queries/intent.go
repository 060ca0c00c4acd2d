package queries

import (
	"context"
	"time"

	"payment-reconciler/internal/infra"
	"payment-reconciler/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrIntentNotFound = errs.New("payment intent not found")
	ErrInvalidCursor  = errs.New("invalid cursor")
)

type IntentReadStore interface {
	FindByID(ctx context.Context, id string) (*IntentView, error)
	FindByOwnerFirstPage(ctx context.Context, ownerID uuid.UUID, limit int32) ([]*IntentView, error)
	FindByOwnerKeyset(ctx context.Context, ownerID uuid.UUID, lastCreatedAt time.Time, lastID string, limit int32) ([]*IntentView, error)
}

type IntentQueries interface {
	GetIntent(ctx context.Context, id string, ownerID uuid.UUID) (*IntentView, error)
	ListHistory(ctx context.Context, ownerID uuid.UUID, cursor *Cursor, limit int) ([]*IntentView, *Cursor, error)
}

type intentQueriesImpl struct {
	store IntentReadStore
}

func NewIntentQueries(store IntentReadStore) IntentQueries {
	return &intentQueriesImpl{store: store}
}

func (q *intentQueriesImpl) GetIntent(ctx context.Context, id string, ownerID uuid.UUID) (*IntentView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrIntentNotFound
		}
		return nil, err
	}
	if view.OwnerID != ownerID {
		return nil, ErrIntentNotFound
	}
	return view, nil
}

// ListHistory pages newest first. The returned cursor is nil on the last page.
func (q *intentQueriesImpl) ListHistory(ctx context.Context, ownerID uuid.UUID, cursor *Cursor, limit int) ([]*IntentView, *Cursor, error) {
	limit = ValidateLimit(limit)
	var rows []*IntentView
	var err error
	if cursor == nil || cursor.After == "" {
		rows, err = q.store.FindByOwnerFirstPage(ctx, ownerID, int32(limit+1))
	} else {
		lastCreatedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, ErrInvalidCursor
		}
		rows, err = q.store.FindByOwnerKeyset(ctx, ownerID, lastCreatedAt, lastID, int32(limit+1))
	}
	if err != nil {
		return nil, nil, err
	}
	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
		rows = rows[:limit]
	}
	return rows, next, nil
}
