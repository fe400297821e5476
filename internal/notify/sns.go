package notify

import (
	"context"

	"tasnim.dev/costalert/internal/alert"
)

// SNSNotifier publishes alerts to the SNS topic named by the message destination.
type SNSNotifier struct {
	publisher Publisher
}

func NewSNSNotifier(publisher Publisher) *SNSNotifier {
	return &SNSNotifier{publisher: publisher}
}

func (s *SNSNotifier) Name() string { return "sns" }

func (s *SNSNotifier) Send(ctx context.Context, msg alert.Message) (DeliveryResult, error) {
	id, err := s.publisher.Publish(ctx, msg.Destination, msg.Subject, msg.Body)
	if err != nil {
		return DeliveryResult{}, &DeliveryError{Sink: s.Name(), Err: err}
	}
	return DeliveryResult{Sink: s.Name(), MessageID: id}, nil
}
