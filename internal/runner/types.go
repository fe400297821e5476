package runner

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"tasnim.dev/costalert/internal/alert"
	awscost "tasnim.dev/costalert/internal/aws/cost"
	"tasnim.dev/costalert/internal/notify"
)

// Status is the outcome of processing one account.
type Status string

const (
	StatusUnderThreshold  Status = "under_threshold"
	StatusAlerted         Status = "alerted"
	StatusDryRun          Status = "dry_run" // over threshold, delivery skipped
	StatusCostQueryFailed Status = "cost_query_failed"
	StatusDeliveryFailed  Status = "delivery_failed"
)

// AccountResult records what happened to one account.
type AccountResult struct {
	AccountID   string                     `json:"account_id" yaml:"account_id"`
	AccountName string                     `json:"account_name,omitempty" yaml:"account_name,omitempty"`
	Status      Status                     `json:"status" yaml:"status"`
	Report      *awscost.AccountCostReport `json:"report,omitempty" yaml:"report,omitempty"`
	Alert       *alert.Message             `json:"alert,omitempty" yaml:"alert,omitempty"`
	Delivery    *notify.DeliveryResult     `json:"delivery,omitempty" yaml:"delivery,omitempty"`
	Error       string                     `json:"error,omitempty" yaml:"error,omitempty"`
	Err         error                      `json:"-" yaml:"-"`
}

// Summary is the outcome of one run, with results in directory order.
type Summary struct {
	RunID          string                  `json:"run_id" yaml:"run_id"`
	InvocationTime time.Time               `json:"invocation_time" yaml:"invocation_time"`
	Window         awscost.ReportingWindow `json:"window" yaml:"window"`
	Threshold      decimal.Decimal         `json:"threshold" yaml:"threshold"`
	Results        []AccountResult         `json:"results" yaml:"results"`
}

// Count returns how many accounts ended with the given status.
func (s *Summary) Count(status Status) int {
	return lo.CountBy(s.Results, func(r AccountResult) bool { return r.Status == status })
}

// Failed counts accounts whose cost query or delivery failed.
func (s *Summary) Failed() int {
	return s.Count(StatusCostQueryFailed) + s.Count(StatusDeliveryFailed)
}
