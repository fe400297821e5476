package cmd

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"

	"tasnim.dev/costalert/internal/runner"
)

// spendRunner is the part of *runner.Runner the Lambda handler needs.
type spendRunner interface {
	Run(ctx context.Context, invocationTime time.Time) (*runner.Summary, error)
}

type lambdaResponse struct {
	Result   string `json:"Result"`
	RunID    string `json:"RunId"`
	Window   string `json:"Window"`
	Accounts int    `json:"Accounts"`
	Alerted  int    `json:"Alerted"`
	Failed   int    `json:"Failed"`
}

func NewLambdaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lambda",
		Short: "Serve the spend analysis as an AWS Lambda function (scheduled EventBridge trigger)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closer, err := loadSettings("", "", "")
			if err != nil {
				return err
			}
			defer closer.Close()

			r, err := newRunner(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}

			lambda.Start(newLambdaHandler(r))
			return nil
		},
	}
}

// newLambdaHandler uses the scheduled event's time as the invocation time; an event
// without one falls back to the current time.
func newLambdaHandler(r spendRunner) func(ctx context.Context, event events.CloudWatchEvent) (lambdaResponse, error) {
	return func(ctx context.Context, event events.CloudWatchEvent) (lambdaResponse, error) {
		summary, err := r.Run(ctx, event.Time)
		if err != nil {
			return lambdaResponse{}, err
		}
		return lambdaResponse{
			Result:   "Ok",
			RunID:    summary.RunID,
			Window:   summary.Window.String(),
			Accounts: len(summary.Results),
			Alerted:  summary.Count(runner.StatusAlerted),
			Failed:   summary.Failed(),
		}, nil
	}
}
