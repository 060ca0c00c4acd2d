package converter

import (
	"encoding/json"
	"fmt"

	"payment-reconciler/internal/domain/payment"
	"payment-reconciler/internal/infra/sqlc"
	"payment-reconciler/internal/pkg/pgconv"
)

func IntentToInfra(intent *payment.Intent) (sqlc.InsertPaymentIntentParams, error) {
	s := intent.Snapshot()
	metadata, err := json.Marshal(s.Metadata)
	if err != nil {
		return sqlc.InsertPaymentIntentParams{}, fmt.Errorf("encode metadata: %w", err)
	}

	return sqlc.InsertPaymentIntentParams{
		ID:                s.ID,
		Reference:         s.Reference,
		AmountMinorUnits:  s.AmountMinorUnits,
		Currency:          s.Currency,
		Status:            s.Status.String(),
		Metadata:          metadata,
		OwnerID:           s.OwnerID,
		LastEventSequence: s.LastEventSequence,
		CreatedAt:         pgconv.TimeToPgtype(s.CreatedAt),
		UpdatedAt:         pgconv.TimeToPgtype(s.UpdatedAt),
	}, nil
}

func SwapToInfra(expectedSequence int64, next *payment.Intent) sqlc.SwapPaymentIntentStatusParams {
	return sqlc.SwapPaymentIntentStatusParams{
		ID:                next.ID(),
		ExpectedSequence:  expectedSequence,
		Status:            next.Status().String(),
		LastEventSequence: next.LastEventSequence(),
		UpdatedAt:         pgconv.TimeToPgtype(next.UpdatedAt()),
	}
}

func SnapshotFromRow(row sqlc.PaymentIntents) (payment.Snapshot, error) {
	status, err := payment.ParseStatus(row.Status)
	if err != nil {
		return payment.Snapshot{}, fmt.Errorf("row %s: %w", row.ID, err)
	}

	metadata := map[string]string{}
	if len(row.Metadata) > 0 {
		if err := json.Unmarshal(row.Metadata, &metadata); err != nil {
			return payment.Snapshot{}, fmt.Errorf("row %s metadata: %w", row.ID, err)
		}
	}

	return payment.Snapshot{
		ID:                row.ID,
		Reference:         row.Reference,
		AmountMinorUnits:  row.AmountMinorUnits,
		Currency:          row.Currency,
		Status:            status,
		Metadata:          metadata,
		OwnerID:           row.OwnerID,
		LastEventSequence: row.LastEventSequence,
		CreatedAt:         pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:         pgconv.TimeFromPgtype(row.UpdatedAt),
	}, nil
}

func IntentFromRow(row sqlc.PaymentIntents) (*payment.Intent, error) {
	s, err := SnapshotFromRow(row)
	if err != nil {
		return nil, err
	}
	return payment.ReconstructIntent(s), nil
}

func NotificationToInfra(n *payment.Notification) sqlc.CreateNotificationJobParams {
	return sqlc.CreateNotificationJobParams{
		ID:       n.ID,
		IntentID: n.IntentID,
		Topic:    n.Topic,
		Payload:  n.Payload,
		RunAt:    pgconv.TimeToPgtype(n.RunAt),
		Status:   string(n.Status),
	}
}

func NotificationFromRow(row sqlc.NotificationJobs) payment.Notification {
	return payment.Notification{
		ID:        row.ID,
		IntentID:  row.IntentID,
		Topic:     row.Topic,
		Payload:   row.Payload,
		RunAt:     pgconv.TimeFromPgtype(row.RunAt),
		Attempts:  int(row.Attempts),
		Status:    payment.NotificationStatus(row.Status),
		LastError: pgconv.StringPtrFromPgtype(row.LastError),
	}
}
