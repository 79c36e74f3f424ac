package pos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// REGISTER - Builds and records transactions
// =============================================================================

// Register validates candidate sales and appends them to the Log.
//
// Validation fully precedes the single append, so a rejected sale never
// leaves a partial record behind. Submissions are not idempotent: submitting
// the same candidate twice records two transactions.
type Register struct {
	Log   *Log
	Now   func() time.Time
	NewID func() TransactionID
}

func NewRegister(log *Log) *Register {
	return &Register{
		Log:   log,
		Now:   time.Now,
		NewID: func() TransactionID { return TransactionID(uuid.NewString()) },
	}
}

// Submit validates c, computes change and records the sale for operator.
func (r *Register) Submit(ctx context.Context, c Candidate, operator Identity) (Transaction, error) {
	if err := validateItems(c.Items); err != nil {
		return Transaction{}, err
	}

	total := Total(c.Items)
	if c.Total != nil && !c.Total.Equal(total) {
		return Transaction{}, &ValidationError{
			Field:  "total_amount",
			Reason: fmt.Sprintf("%s does not match line items (%s)", c.Total, total),
		}
	}

	if c.CashReceived.LessThan(total) {
		return Transaction{}, &InsufficientPaymentError{
			Total:        total,
			CashReceived: c.CashReceived,
			Shortfall:    total.Sub(c.CashReceived),
		}
	}

	tx := Transaction{
		ID:            r.NewID(),
		Items:         append([]LineItem(nil), c.Items...),
		Total:         total,
		PaymentMethod: PaymentCash,
		CashReceived:  c.CashReceived,
		Change:        c.CashReceived.Sub(total),
		OperatorID:    operator.ID,
		OperatorName:  operator.Name,
		CreatedAt:     r.Now().UTC(),
		Status:        StatusCompleted,
	}

	if err := r.Log.Append(ctx, tx); err != nil {
		return Transaction{}, err
	}
	return tx.Clone(), nil
}

// Total is Σ(price × quantity) over items.
func Total(items []LineItem) Money {
	total := Money{}
	for _, li := range items {
		total = total.Add(li.Subtotal())
	}
	return total
}

func validateItems(items []LineItem) error {
	if len(items) == 0 {
		return &ValidationError{Field: "items", Reason: "at least one line item is required"}
	}
	for i, li := range items {
		if li.Quantity < 1 {
			return &ValidationError{
				Field:  fmt.Sprintf("items[%d].quantity", i),
				Reason: fmt.Sprintf("must be at least 1, got %d", li.Quantity),
			}
		}
		if li.Price.IsNegative() {
			return &ValidationError{
				Field:  fmt.Sprintf("items[%d].price", i),
				Reason: fmt.Sprintf("must not be negative, got %s", li.Price),
			}
		}
	}
	return nil
}
