package cost

import (
	"context"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/shopspring/decimal"
)

type mockCostExplorerAPI struct {
	getCostAndUsageFunc func(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}

func (m *mockCostExplorerAPI) GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
	return m.getCostAndUsageFunc(ctx, params, optFns...)
}

func group(service, amount string) types.Group {
	return types.Group{
		Keys: []string{service},
		Metrics: map[string]types.MetricValue{
			"UnblendedCost": {Amount: awssdk.String(amount), Unit: awssdk.String("USD")},
		},
	}
}

func singleBucket(groups ...types.Group) *costexplorer.GetCostAndUsageOutput {
	return &costexplorer.GetCostAndUsageOutput{
		ResultsByTime: []types.ResultByTime{{
			TimePeriod: &types.DateInterval{Start: awssdk.String("2026-01-01"), End: awssdk.String("2026-02-01")},
			Groups:     groups,
		}},
	}
}

var january = ReportingWindow{
	Start: mustDate("2026-01-01"),
	End:   mustDate("2026-01-31"),
}

func TestComputeCostReport_AggregatesCorrectly(t *testing.T) {
	mock := &mockCostExplorerAPI{
		getCostAndUsageFunc: func(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
			return singleBucket(
				group("Amazon S3", "20.10"),
				group("Amazon EC2", "50.25"),
			), nil
		},
	}

	report, err := NewClient(mock).ComputeCostReport(context.Background(), "111122223333", january)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.Total.Equal(decimal.RequireFromString("70.35")) {
		t.Errorf("Total = %s, want 70.35", report.Total)
	}
	if report.Currency != "USD" {
		t.Errorf("Currency = %s, want USD", report.Currency)
	}
	if report.AccountID != "111122223333" {
		t.Errorf("AccountID = %s, want 111122223333", report.AccountID)
	}
	if len(report.Breakdown) != 2 {
		t.Fatalf("Breakdown length = %d, want 2", len(report.Breakdown))
	}
	if report.Breakdown[0].Service != "Amazon EC2" {
		t.Errorf("Breakdown[0].Service = %s, want Amazon EC2", report.Breakdown[0].Service)
	}
}

func TestComputeCostReport_TotalMatchesBreakdown(t *testing.T) {
	mock := &mockCostExplorerAPI{
		getCostAndUsageFunc: func(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
			return singleBucket(
				group("AWS Lambda", "0.1"),
				group("Amazon SQS", "0.2"),
				group("Amazon SNS", "0.0000001"),
			), nil
		},
	}

	report, err := NewClient(mock).ComputeCostReport(context.Background(), "1", january)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum := decimal.Zero
	for _, s := range report.Breakdown {
		sum = sum.Add(s.Amount)
	}
	if !sum.Equal(report.Total) {
		t.Errorf("sum of breakdown = %s, Total = %s", sum, report.Total)
	}
	if !report.Total.Equal(decimal.RequireFromString("0.3000001")) {
		t.Errorf("Total = %s, want 0.3000001", report.Total)
	}
}

func TestComputeCostReport_QueryShape(t *testing.T) {
	var got *costexplorer.GetCostAndUsageInput
	mock := &mockCostExplorerAPI{
		getCostAndUsageFunc: func(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
			got = params
			return singleBucket(), nil
		},
	}

	if _, err := NewClient(mock).ComputeCostReport(context.Background(), "444455556666", january); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if awssdk.ToString(got.TimePeriod.Start) != "2026-01-01" {
		t.Errorf("Start = %s, want 2026-01-01", awssdk.ToString(got.TimePeriod.Start))
	}
	if awssdk.ToString(got.TimePeriod.End) != "2026-02-01" {
		t.Errorf("End = %s, want 2026-02-01 (exclusive)", awssdk.ToString(got.TimePeriod.End))
	}
	if got.Granularity != types.GranularityMonthly {
		t.Errorf("Granularity = %s, want MONTHLY", got.Granularity)
	}
	if len(got.Metrics) != 1 || got.Metrics[0] != "UnblendedCost" {
		t.Errorf("Metrics = %v, want [UnblendedCost]", got.Metrics)
	}
	if got.Filter == nil || got.Filter.Dimensions == nil {
		t.Fatal("expected a LINKED_ACCOUNT filter")
	}
	if got.Filter.Dimensions.Key != types.DimensionLinkedAccount {
		t.Errorf("Filter key = %s, want LINKED_ACCOUNT", got.Filter.Dimensions.Key)
	}
	if len(got.Filter.Dimensions.Values) != 1 || got.Filter.Dimensions.Values[0] != "444455556666" {
		t.Errorf("Filter values = %v, want [444455556666]", got.Filter.Dimensions.Values)
	}
	if len(got.GroupBy) != 1 || awssdk.ToString(got.GroupBy[0].Key) != "SERVICE" {
		t.Errorf("GroupBy = %v, want SERVICE", got.GroupBy)
	}
}

func TestComputeCostReport_NoBuckets(t *testing.T) {
	mock := &mockCostExplorerAPI{
		getCostAndUsageFunc: func(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
			return &costexplorer.GetCostAndUsageOutput{}, nil
		},
	}

	report, err := NewClient(mock).ComputeCostReport(context.Background(), "1", january)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Total.IsZero() {
		t.Errorf("Total = %s, want 0", report.Total)
	}
	if len(report.Breakdown) != 0 {
		t.Errorf("Breakdown length = %d, want 0", len(report.Breakdown))
	}
}

func TestComputeCostReport_ReadsOnlyFirstBucket(t *testing.T) {
	mock := &mockCostExplorerAPI{
		getCostAndUsageFunc: func(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
			out := singleBucket(group("Amazon EC2", "10"))
			out.ResultsByTime = append(out.ResultsByTime, types.ResultByTime{
				Groups: []types.Group{group("Amazon EC2", "999")},
			})
			return out, nil
		},
	}

	report, err := NewClient(mock).ComputeCostReport(context.Background(), "1", january)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Total.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Total = %s, want 10", report.Total)
	}
}

func TestComputeCostReport_FollowsPageToken(t *testing.T) {
	calls := 0
	mock := &mockCostExplorerAPI{
		getCostAndUsageFunc: func(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
			calls++
			if params.NextPageToken == nil {
				out := singleBucket(group("Amazon EC2", "5"))
				out.NextPageToken = awssdk.String("page-2")
				return out, nil
			}
			if awssdk.ToString(params.NextPageToken) != "page-2" {
				t.Errorf("NextPageToken = %s, want page-2", awssdk.ToString(params.NextPageToken))
			}
			return singleBucket(group("Amazon RDS", "7")), nil
		},
	}

	report, err := NewClient(mock).ComputeCostReport(context.Background(), "1", january)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if len(report.Breakdown) != 2 {
		t.Fatalf("Breakdown length = %d, want 2", len(report.Breakdown))
	}
	if report.Breakdown[0].Service != "Amazon RDS" {
		t.Errorf("Breakdown[0].Service = %s, want Amazon RDS", report.Breakdown[0].Service)
	}
	if !report.Total.Equal(decimal.NewFromInt(12)) {
		t.Errorf("Total = %s, want 12", report.Total)
	}
}

func TestComputeCostReport_APIError(t *testing.T) {
	apiErr := errors.New("AccessDeniedException")
	mock := &mockCostExplorerAPI{
		getCostAndUsageFunc: func(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
			return nil, apiErr
		},
	}

	_, err := NewClient(mock).ComputeCostReport(context.Background(), "777", january)
	if err == nil {
		t.Fatal("expected error")
	}

	var cqe *CostQueryError
	if !errors.As(err, &cqe) {
		t.Fatalf("error %T is not a *CostQueryError", err)
	}
	if cqe.AccountID != "777" {
		t.Errorf("AccountID = %s, want 777", cqe.AccountID)
	}
	if !errors.Is(err, apiErr) {
		t.Error("expected error to wrap the API error")
	}
}

func TestComputeCostReport_MalformedAmount(t *testing.T) {
	mock := &mockCostExplorerAPI{
		getCostAndUsageFunc: func(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error) {
			return singleBucket(group("Amazon EC2", "12.x")), nil
		},
	}

	_, err := NewClient(mock).ComputeCostReport(context.Background(), "1", january)
	if !errors.Is(err, ErrMalformedAmount) {
		t.Fatalf("err = %v, want ErrMalformedAmount", err)
	}
}

func TestRankByAmount_StableOnTies(t *testing.T) {
	spends := []ServiceSpend{
		{Service: "A", Amount: decimal.NewFromInt(50)},
		{Service: "B", Amount: decimal.NewFromInt(200)},
		{Service: "C", Amount: decimal.NewFromInt(200)},
		{Service: "D", Amount: decimal.NewFromInt(10)},
	}

	RankByAmount(spends)

	expected := []string{"B", "C", "A", "D"}
	for i, s := range spends {
		if s.Service != expected[i] {
			t.Errorf("spends[%d].Service = %s, want %s", i, s.Service, expected[i])
		}
	}
}

func TestRankByAmount_TiesKeepInputOrder(t *testing.T) {
	spends := []ServiceSpend{
		{Service: "C", Amount: decimal.NewFromInt(200)},
		{Service: "B", Amount: decimal.NewFromInt(200)},
	}

	RankByAmount(spends)

	if spends[0].Service != "C" || spends[1].Service != "B" {
		t.Errorf("order = [%s %s], want [C B]", spends[0].Service, spends[1].Service)
	}
}
