package shared

import (
	"context"
	"time"

	"payment-reconciler/internal/domain/payment"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reads: Direct access to intent reads outside transactions
	Reads() IntentReads
}

type Tx interface {
	Intents() IntentRepository
	Notifications() NotificationRepository
}

// IntentReads fail with infra.KindNotFound when nothing matches.
type IntentReads interface {
	FindByID(ctx context.Context, id string) (*payment.Intent, error)
	FindByReference(ctx context.Context, ref payment.Reference) (*payment.Intent, error)
	ListStale(ctx context.Context, statuses []payment.Status, updatedBefore time.Time, limit int) ([]*payment.Intent, error)
}

type IntentRepository interface {
	// InsertIfAbsent reports false when an intent with the same id or reference already exists.
	InsertIfAbsent(ctx context.Context, intent *payment.Intent) (bool, error)
	// SwapStatus persists next only if the stored sequence still equals expectedSequence,
	// failing with infra.KindStaleSequence otherwise.
	SwapStatus(ctx context.Context, expectedSequence int64, next *payment.Intent) error
}

type NotificationRepository interface {
	// Enqueue is a no-op when the intent already has a job for the same topic.
	Enqueue(ctx context.Context, n *payment.Notification) error
}
