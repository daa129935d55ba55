package interest

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Repository defines interest rule persistence operations
type Repository interface {
	// Save stores rule, replacing any rule with the same effective date
	Save(ctx context.Context, rule Rule) error
	// AppendHistory keeps every definition, including replaced ones
	AppendHistory(ctx context.Context, rule Rule) error
	List(ctx context.Context) ([]Rule, error)
	WithTx(tx pgx.Tx) Repository
}
