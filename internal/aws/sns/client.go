package sns

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
)

// MaxSubjectLength is the longest subject SNS accepts for email endpoints.
const MaxSubjectLength = 100

type SNSAPI interface {
	Publish(ctx context.Context, params *awssns.PublishInput, optFns ...func(*awssns.Options)) (*awssns.PublishOutput, error)
}

type Client struct {
	api SNSAPI
}

func NewClient(api SNSAPI) *Client {
	return &Client{api: api}
}

// Publish sends a message to a topic and returns the SNS message ID.
func (c *Client) Publish(ctx context.Context, topicARN, subject, message string) (string, error) {
	out, err := c.api.Publish(ctx, &awssns.PublishInput{
		TopicArn: aws.String(topicARN),
		Subject:  aws.String(TrimSubject(subject)),
		Message:  aws.String(message),
	})
	if err != nil {
		return "", fmt.Errorf("Publish(%s): %w", topicARN, err)
	}
	return aws.ToString(out.MessageId), nil
}

// TrimSubject cuts a subject to MaxSubjectLength bytes.
func TrimSubject(subject string) string {
	if len(subject) <= MaxSubjectLength {
		return subject
	}
	return subject[:MaxSubjectLength]
}
