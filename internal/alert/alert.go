// Package alert decides which accounts are over their spend threshold and
// renders the message sent for them.
package alert

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	awscost "tasnim.dev/costalert/internal/aws/cost"
	awssns "tasnim.dev/costalert/internal/aws/sns"
)

// DefaultTopN is how many services an alert lists when not configured.
const DefaultTopN = 10

// Message is a composed alert, ready for a notifier.
type Message struct {
	Subject     string `json:"subject" yaml:"subject"`
	Body        string `json:"body" yaml:"body"`
	Destination string `json:"destination" yaml:"destination"`
}

// ExceedsThreshold reports whether the account's total is strictly greater than threshold.
func ExceedsThreshold(report *awscost.AccountCostReport, threshold decimal.Decimal) bool {
	return report.Total.GreaterThan(threshold)
}

// Compose renders the alert for an account. Only the topN most expensive services are listed.
func Compose(accountID string, report *awscost.AccountCostReport, window awscost.ReportingWindow, topN int, destination string) Message {
	start, end := window.StartDate(), window.EndDate()

	var b strings.Builder
	fmt.Fprintf(&b, "Below is the spend for account # %s from %s to %s\n", accountID, start, end)
	fmt.Fprintf(&b, "Your account had a total monthly spend of %s\n", FormatCurrency(report.Total))
	b.WriteString("For your information, the following are the top-costing services in this account:\n\n")

	for _, svc := range TopServices(report.Breakdown, topN) {
		fmt.Fprintf(&b, " - %s : %s\n", svc.Service, FormatCurrency(svc.Amount))
	}

	return Message{
		Subject:     awssns.TrimSubject(fmt.Sprintf("AWS Account #%s spend from %s - %s", accountID, start, end)),
		Body:        b.String(),
		Destination: destination,
	}
}

// TopServices returns at most n entries from an already ranked breakdown.
func TopServices(breakdown []awscost.ServiceSpend, n int) []awscost.ServiceSpend {
	if n < 0 {
		n = 0
	}
	if len(breakdown) <= n {
		return breakdown
	}
	return breakdown[:n]
}
