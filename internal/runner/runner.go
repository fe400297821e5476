// Package runner drives one spend-alert run across every account in the organization.
package runner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"tasnim.dev/costalert/internal/alert"
	awscost "tasnim.dev/costalert/internal/aws/cost"
	awsorg "tasnim.dev/costalert/internal/aws/organizations"
	"tasnim.dev/costalert/internal/logging"
	"tasnim.dev/costalert/internal/notify"
)

// AccountLister enumerates the accounts to analyze.
type AccountLister interface {
	ListAccounts(ctx context.Context) ([]awsorg.Account, error)
}

// CostReporter computes one account's cost report for a window.
type CostReporter interface {
	ComputeCostReport(ctx context.Context, accountID string, window awscost.ReportingWindow) (*awscost.AccountCostReport, error)
}

// Options are fixed for the lifetime of a Runner.
type Options struct {
	Threshold    decimal.Decimal
	Destination  string
	TopN         int
	Concurrency  int
	SkipInactive bool
	DryRun       bool
}

type Runner struct {
	accounts AccountLister
	costs    CostReporter
	notifier notify.Notifier
	opts     Options
	logger   *log.Logger
	now      func() time.Time
}

func New(accounts AccountLister, costs CostReporter, notifier notify.Notifier, opts Options) *Runner {
	if opts.TopN <= 0 {
		opts.TopN = alert.DefaultTopN
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Runner{
		accounts: accounts,
		costs:    costs,
		notifier: notifier,
		opts:     opts,
		logger:   log.StandardLogger(),
		now:      time.Now,
	}
}

// Run analyzes the month before invocationTime (zero means now). Per-account failures are
// recorded in the summary; only a failed account listing or a cancelled context returns an error.
func (r *Runner) Run(ctx context.Context, invocationTime time.Time) (*Summary, error) {
	if invocationTime.IsZero() {
		invocationTime = r.now()
	}
	window := awscost.PreviousMonth(invocationTime)

	summary := &Summary{
		RunID:          uuid.NewString(),
		InvocationTime: invocationTime,
		Window:         window,
		Threshold:      r.opts.Threshold,
	}
	logger := r.logger.WithFields(log.Fields{
		"run_id": summary.RunID,
		"window": window.String(),
	})

	accounts, err := r.accounts.ListAccounts(ctx)
	if err != nil {
		logger.WithFields(logging.ErrorFields(err)).Error("Listing accounts failed")
		return nil, &DirectoryError{Err: err}
	}
	if r.opts.SkipInactive {
		accounts = lo.Filter(accounts, func(a awsorg.Account, _ int) bool { return a.Active() })
	}
	logger.WithField("accounts", len(accounts)).Info("Starting spend analysis")

	summary.Results = make([]AccountResult, len(accounts))

	var g errgroup.Group
	g.SetLimit(r.opts.Concurrency)
	for i, account := range accounts {
		g.Go(func() error {
			summary.Results[i] = r.processAccount(ctx, logger, account, window)
			return nil
		})
	}
	_ = g.Wait()

	logger.WithFields(log.Fields{
		"alerted": summary.Count(StatusAlerted),
		"failed":  summary.Failed(),
	}).Info("Spend analysis finished")

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func (r *Runner) processAccount(ctx context.Context, logger *log.Entry, account awsorg.Account, window awscost.ReportingWindow) AccountResult {
	result := AccountResult{AccountID: account.ID, AccountName: account.Name}
	entry := logger.WithField("account_id", account.ID)
	entry.Info("Analyzing account")

	report, err := r.costs.ComputeCostReport(ctx, account.ID, window)
	if err != nil {
		entry.WithFields(logging.ErrorFields(err)).Error("Cost query failed, skipping account")
		return result.failed(StatusCostQueryFailed, err)
	}
	result.Report = report
	entry = entry.WithField("total_cost", report.Total.StringFixed(2))
	entry.Info("Total cost")

	if !alert.ExceedsThreshold(report, r.opts.Threshold) {
		result.Status = StatusUnderThreshold
		return result
	}

	msg := alert.Compose(account.ID, report, window, r.opts.TopN, r.opts.Destination)
	result.Alert = &msg

	if r.opts.DryRun {
		entry.Info("Over threshold, dry run: alert not sent")
		result.Status = StatusDryRun
		return result
	}

	delivery, err := r.notifier.Send(ctx, msg)
	if err != nil {
		entry.WithFields(logging.ErrorFields(err)).Error("Alert delivery failed")
		return result.failed(StatusDeliveryFailed, err)
	}
	result.Delivery = &delivery
	result.Status = StatusAlerted
	entry.WithField("message_id", delivery.MessageID).Info("Alert sent")
	return result
}

func (r AccountResult) failed(status Status, err error) AccountResult {
	r.Status = status
	r.Err = err
	r.Error = err.Error()
	return r
}
