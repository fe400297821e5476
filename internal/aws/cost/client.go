package cost

import (
	"context"
	"fmt"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/shopspring/decimal"
)

const unblendedCost = "UnblendedCost"

// CostExplorerAPI is the subset of the AWS Cost Explorer client we use.
type CostExplorerAPI interface {
	GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}

// Client wraps the AWS Cost Explorer API.
type Client struct {
	ce CostExplorerAPI
}

// NewClient creates a Cost Explorer client from an API implementation.
func NewClient(api CostExplorerAPI) *Client {
	return &Client{ce: api}
}

// ComputeCostReport queries one account's unblended cost for the window, grouped by service.
// An account with no usage yields a zero total and an empty breakdown.
func (c *Client) ComputeCostReport(ctx context.Context, accountID string, window ReportingWindow) (*AccountCostReport, error) {
	groups, err := c.fetchServiceGroups(ctx, accountID, window)
	if err != nil {
		return nil, &CostQueryError{AccountID: accountID, Err: err}
	}

	report, err := aggregateGroups(accountID, groups)
	if err != nil {
		return nil, &CostQueryError{AccountID: accountID, Err: err}
	}
	return report, nil
}

// fetchServiceGroups returns the service groups of the first time bucket,
// following NextPageToken until the result set is exhausted.
func (c *Client) fetchServiceGroups(ctx context.Context, accountID string, window ReportingWindow) ([]types.Group, error) {
	var groups []types.Group
	var token *string

	for {
		out, err := c.ce.GetCostAndUsage(ctx, &costexplorer.GetCostAndUsageInput{
			TimePeriod: &types.DateInterval{
				Start: aws.String(window.StartDate()),
				End:   aws.String(window.QueryEnd().Format(dateLayout)),
			},
			Granularity: types.GranularityMonthly,
			Metrics:     []string{unblendedCost},
			Filter: &types.Expression{
				Dimensions: &types.DimensionValues{
					Key:    types.DimensionLinkedAccount,
					Values: []string{accountID},
				},
			},
			GroupBy: []types.GroupDefinition{
				{Type: types.GroupDefinitionTypeDimension, Key: aws.String("SERVICE")},
			},
			NextPageToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("GetCostAndUsage: %w", err)
		}

		// A single-month window yields at most one bucket.
		if len(out.ResultsByTime) > 0 {
			groups = append(groups, out.ResultsByTime[0].Groups...)
		}

		if aws.ToString(out.NextPageToken) == "" {
			break
		}
		token = out.NextPageToken
	}

	return groups, nil
}

// aggregateGroups converts raw groups into a ranked report. Total is summed from
// the same amounts that populate the breakdown.
func aggregateGroups(accountID string, groups []types.Group) (*AccountCostReport, error) {
	report := &AccountCostReport{
		AccountID: accountID,
		Total:     decimal.Zero,
		Breakdown: make([]ServiceSpend, 0, len(groups)),
	}

	for _, group := range groups {
		if len(group.Keys) == 0 {
			continue
		}
		metric := group.Metrics[unblendedCost]
		raw := aws.ToString(metric.Amount)
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: service %q amount %q", ErrMalformedAmount, group.Keys[0], raw)
		}
		if report.Currency == "" {
			report.Currency = aws.ToString(metric.Unit)
		}
		report.Breakdown = append(report.Breakdown, ServiceSpend{Service: group.Keys[0], Amount: amount})
		report.Total = report.Total.Add(amount)
	}

	RankByAmount(report.Breakdown)
	return report, nil
}

// RankByAmount sorts spends by amount descending. The sort is stable, so services
// with equal amounts keep their original order.
func RankByAmount(spends []ServiceSpend) {
	slices.SortStableFunc(spends, func(a, b ServiceSpend) int {
		return b.Amount.Cmp(a.Amount)
	})
}
