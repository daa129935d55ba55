package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/interest-ledger/internal/api_gateway/service"
	"github.com/interest-ledger/internal/domain/shared"
	"github.com/interest-ledger/internal/platform/messaging/producers"
)

// TransactionRequestHandler feeds transaction requests read from Kafka into the ledger.
// Messages that can never succeed are moved to the DLQ and acknowledged.
type TransactionRequestHandler struct {
	ledgerService service.LedgerService
	producer      producers.DeadLetterPublisher
	logger        *slog.Logger
}

// NewTransactionRequestHandler creates a new handler. producer may be nil.
func NewTransactionRequestHandler(
	logger *slog.Logger,
	ledgerService service.LedgerService,
	producer producers.DeadLetterPublisher,
) *TransactionRequestHandler {
	return &TransactionRequestHandler{
		ledgerService: ledgerService,
		producer:      producer,
		logger:        logger,
	}
}

// HandleMessage processes one Kafka message. A nil return commits the offset.
func (h *TransactionRequestHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var request shared.TransactionRequest
	if err := json.Unmarshal(value, &request); err != nil {
		h.logger.Error("Failed to unmarshal transaction request from Kafka message",
			"error", err,
			"message_key", string(key),
		)
		return h.deadLetter(ctx, h.logger, key, value, fmt.Errorf("malformed transaction request: %w", err))
	}

	logger := h.logger
	if request.CorrelationID != "" {
		logger = h.logger.With("correlation_id", request.CorrelationID)
		ctx = shared.ContextWithCorrelationID(ctx, request.CorrelationID)
	}

	logger.Info("Received transaction request",
		"account_id", request.AccountID,
		"date", request.Date,
		"type", request.Type,
		"amount", request.Amount,
	)

	result, err := h.ledgerService.RecordTransaction(ctx, &request)
	if err != nil {
		if service.IsRejection(err) {
			return h.deadLetter(ctx, logger, key, value, err)
		}
		logger.Error("Failed to record transaction", "account_id", request.AccountID, "error", err)
		return fmt.Errorf("recording transaction for account %s failed: %w", request.AccountID, err)
	}

	logger.Info("Successfully recorded transaction",
		"account_id", result.AccountID,
		"transaction_id", result.Transaction.ID(),
	)
	return nil
}

// deadLetter publishes a rejected message to the DLQ. Only a DLQ write failure is
// returned so the message is redelivered.
func (h *TransactionRequestHandler) deadLetter(ctx context.Context, logger *slog.Logger, key, value []byte, reason error) error {
	if h.producer == nil {
		logger.Warn("Dropping rejected transaction request, DLQ disabled", "message_key", string(key), "reason", reason)
		return nil
	}

	if err := h.producer.PublishToDLQ(ctx, string(key), value, reason.Error()); err != nil {
		if errors.Is(err, producers.ErrDLQDisabled) {
			logger.Warn("Dropping rejected transaction request, DLQ disabled", "message_key", string(key), "reason", reason)
			return nil
		}
		logger.Error("Failed to publish message to DLQ",
			"dlq_error", err,
			"original_error", reason,
			"message_key", string(key),
		)
		return fmt.Errorf("dead-lettering message %s: %w", string(key), err)
	}

	logger.Info("Published rejected transaction request to DLQ", "message_key", string(key), "reason", reason)
	return nil
}
