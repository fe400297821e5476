// Package notify delivers composed alerts to the configured sink.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws/arn"

	"tasnim.dev/costalert/internal/alert"
)

// DeliveryResult acknowledges a delivered alert.
type DeliveryResult struct {
	Sink      string `json:"sink" yaml:"sink"`
	MessageID string `json:"message_id,omitempty" yaml:"message_id,omitempty"`
}

// Notifier sends alerts to an external system.
type Notifier interface {
	// Name returns the sink identifier.
	Name() string

	// Send delivers a message. Implementations must be safe for concurrent use.
	Send(ctx context.Context, msg alert.Message) (DeliveryResult, error)
}

// DeliveryError reports an alert that was composed but could not be delivered.
type DeliveryError struct {
	Sink string
	Err  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver via %s: %v", e.Sink, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Publisher is the SNS operation the SNS sink needs.
type Publisher interface {
	Publish(ctx context.Context, topicARN, subject, message string) (string, error)
}

// New picks a sink from the destination: an SNS topic ARN or an http(s) webhook URL.
func New(destination, webhookSecret string, publisher Publisher) (Notifier, error) {
	switch {
	case arn.IsARN(destination):
		parsed, err := arn.Parse(destination)
		if err != nil {
			return nil, fmt.Errorf("parse destination ARN: %w", err)
		}
		if parsed.Service != "sns" || parsed.Resource == "" {
			return nil, fmt.Errorf("destination %s is not an SNS topic", destination)
		}
		if publisher == nil {
			return nil, fmt.Errorf("no SNS publisher for destination %s", destination)
		}
		return NewSNSNotifier(publisher), nil
	case strings.HasPrefix(destination, "https://"), strings.HasPrefix(destination, "http://"):
		return NewWebhookNotifier(webhookSecret), nil
	default:
		return nil, fmt.Errorf("unsupported alert destination %q", destination)
	}
}
