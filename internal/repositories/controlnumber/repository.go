// Package controlnumber implements the durable control number ledger.
package controlnumber

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/database"
	"github.com/Monkeyboy26/flooring-platform-sub002/pkg/tracing"
)

// maxControlNumber is the largest value X12 control number fields can carry;
// the counter wraps back to 1 past it.
const maxControlNumber = 999999999

// Repository issues control numbers from a per-partner, per-scope counter
// table.
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new control number repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Next issues the next control number for (partnerID, numberType). The
// increment, wraparound and first-use creation all happen in one statement so
// concurrent callers can never observe the same value for a key.
func (r *Repository) Next(ctx context.Context, partnerID, numberType string) (int64, error) {
	ctx, span := tracing.StartSpan(ctx, "controlnumber.Repository.Next")
	defer span.End()

	query := `
		INSERT INTO control_numbers (partner_id, number_type, value, updated_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (partner_id, number_type)
		DO UPDATE SET
			value = CASE
				WHEN control_numbers.value >= $3 THEN 1
				ELSE control_numbers.value + 1
			END,
			updated_at = NOW()
		RETURNING value`

	var value int64
	if err := r.db.GetContext(ctx, &value, query, partnerID, numberType, maxControlNumber); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"method":      "Next",
			"partner_id":  partnerID,
			"number_type": numberType,
		}).Error("Failed to issue control number")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to issue control number")
	}

	return value, nil
}
