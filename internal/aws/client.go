package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
	awssnssdk "github.com/aws/aws-sdk-go-v2/service/sns"

	awscost "tasnim.dev/costalert/internal/aws/cost"
	awsorg "tasnim.dev/costalert/internal/aws/organizations"
	awssns "tasnim.dev/costalert/internal/aws/sns"
)

// ServiceClient bundles the AWS clients one run needs.
type ServiceClient struct {
	Config        aws.Config
	Cost          *awscost.Client
	Organizations *awsorg.Client
	SNS           *awssns.Client
}

func NewServiceClient(ctx context.Context, profile, region string) (*ServiceClient, error) {
	cfg, err := LoadConfig(ctx, profile, region)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &ServiceClient{
		Config:        cfg,
		Cost:          awscost.NewClient(costexplorer.NewFromConfig(cfg)),
		Organizations: awsorg.NewClient(organizations.NewFromConfig(cfg)),
		SNS:           awssns.NewClient(awssnssdk.NewFromConfig(cfg)),
	}, nil
}
