package cost

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrMalformedAmount is returned when Cost Explorer reports an amount that is not a decimal.
var ErrMalformedAmount = errors.New("malformed cost amount")

// ServiceSpend is the unblended cost of one service in the reporting window.
type ServiceSpend struct {
	Service string          `json:"service" yaml:"service"`
	Amount  decimal.Decimal `json:"amount" yaml:"amount"`
}

// AccountCostReport holds an account's total spend and its per-service breakdown,
// sorted by amount descending. Total is always the sum of the Breakdown amounts.
type AccountCostReport struct {
	AccountID string          `json:"account_id" yaml:"account_id"`
	Currency  string          `json:"currency" yaml:"currency"`
	Total     decimal.Decimal `json:"total" yaml:"total"`
	Breakdown []ServiceSpend  `json:"breakdown" yaml:"breakdown"`
}

// CostQueryError reports a failed cost query for a single account.
type CostQueryError struct {
	AccountID string
	Err       error
}

func (e *CostQueryError) Error() string {
	return fmt.Sprintf("cost query for account %s: %v", e.AccountID, e.Err)
}

func (e *CostQueryError) Unwrap() error { return e.Err }
