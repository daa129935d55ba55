package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/interest-ledger/internal/domain/interest"
	"github.com/interest-ledger/internal/domain/shared"
	"github.com/interest-ledger/internal/platform/messaging/producers"
	"github.com/interest-ledger/internal/store"
)

// eventPublisher turns postings and rule changes into ledger events. Publishing
// failures are logged and never undo the change that triggered them.
type eventPublisher struct {
	logger    *slog.Logger
	publisher producers.MessagePublisher
	now       func() time.Time
}

func newEventPublisher(logger *slog.Logger, publisher producers.MessagePublisher) *eventPublisher {
	if publisher == nil {
		publisher = producers.NoopPublisher{}
	}
	return &eventPublisher{logger: logger, publisher: publisher, now: time.Now}
}

func (p *eventPublisher) posting(ctx context.Context, eventType shared.EventType, posting *store.Posting) {
	txn := posting.Transaction
	p.publish(ctx, posting.AccountID, shared.LedgerEvent{
		Type:          eventType,
		AccountID:     posting.AccountID,
		TransactionID: txn.ID(),
		Date:          shared.FormatDate(txn.Date()),
		Kind:          string(txn.Kind()),
		Amount:        txn.Amount().String(),
		Balance:       posting.Balance.String(),
	})
}

func (p *eventPublisher) rule(ctx context.Context, rule interest.Rule) {
	p.publish(ctx, rule.RuleID, shared.LedgerEvent{
		Type:   shared.EventTypeRuleDefined,
		Date:   shared.FormatDate(rule.EffectiveDate),
		RuleID: rule.RuleID,
		Rate:   rule.Rate.String(),
	})
}

func (p *eventPublisher) publish(ctx context.Context, key string, event shared.LedgerEvent) {
	event.EventID = uuid.New().String()
	event.CorrelationID = shared.CorrelationIDFromContext(ctx)
	event.OccurredAt = p.now().UTC()

	if err := p.publisher.Publish(ctx, key, event); err != nil {
		p.logger.Error("Failed to publish ledger event",
			"event_type", string(event.Type),
			"key", key,
			"correlation_id", event.CorrelationID,
			"error", err,
		)
	}
}
