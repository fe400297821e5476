package cmd

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	awsclient "tasnim.dev/costalert/internal/aws"
	"tasnim.dev/costalert/internal/config"
	"tasnim.dev/costalert/internal/logging"
	"tasnim.dev/costalert/internal/notify"
	"tasnim.dev/costalert/internal/runner"
)

// loadSettings reads and validates configuration, then configures logging.
// Any error here is fatal: the run must not start with a bad config.
func loadSettings(cfgFile, profile, region string) (*config.Config, io.Closer, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	cfg.Merge(profile, region)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	closer, err := logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		return nil, nil, fmt.Errorf("configuring logging: %w", err)
	}
	return cfg, closer, nil
}

// newRunner wires the AWS clients and the alert sink into a Runner.
func newRunner(ctx context.Context, cfg *config.Config, dryRun bool) (*runner.Runner, error) {
	client, err := awsclient.NewServiceClient(ctx, cfg.Profile, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("initializing AWS client: %w", err)
	}
	if caller := awsclient.GetAccountID(ctx, client.Config); caller != "" {
		log.WithFields(log.Fields{"caller_account": caller, "region": client.Config.Region}).Info("Using AWS credentials")
	}

	notifier, err := notify.New(cfg.SNSTopicARN, cfg.WebhookSecret, client.SNS)
	if err != nil {
		return nil, &config.Error{Field: "SNS_TOPIC_ARN", Reason: err.Error()}
	}

	return runner.New(client.Organizations, client.Cost, notifier, runner.Options{
		Threshold:    cfg.Threshold(),
		Destination:  cfg.SNSTopicARN,
		TopN:         cfg.NumServicesToReport,
		Concurrency:  cfg.Concurrency,
		SkipInactive: cfg.SkipInactive,
		DryRun:       dryRun,
	}), nil
}
