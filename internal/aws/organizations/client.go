package organizations

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsorg "github.com/aws/aws-sdk-go-v2/service/organizations"
)

type OrganizationsAPI interface {
	ListAccounts(ctx context.Context, params *awsorg.ListAccountsInput, optFns ...func(*awsorg.Options)) (*awsorg.ListAccountsOutput, error)
}

type Client struct {
	api OrganizationsAPI
}

func NewClient(api OrganizationsAPI) *Client {
	return &Client{api: api}
}

// ListAccounts returns every account in the organization, in the order the API lists them.
func (c *Client) ListAccounts(ctx context.Context) ([]Account, error) {
	var accounts []Account
	var token *string

	for {
		out, err := c.api.ListAccounts(ctx, &awsorg.ListAccountsInput{
			NextToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("ListAccounts: %w", err)
		}

		for _, a := range out.Accounts {
			var joinedAt time.Time
			if a.JoinedTimestamp != nil {
				joinedAt = *a.JoinedTimestamp
			}
			accounts = append(accounts, Account{
				ID:       aws.ToString(a.Id),
				Name:     aws.ToString(a.Name),
				Email:    aws.ToString(a.Email),
				Status:   string(a.Status),
				JoinedAt: joinedAt,
			})
		}

		if aws.ToString(out.NextToken) == "" {
			break
		}
		token = out.NextToken
	}

	return accounts, nil
}
