package awsorg

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/organizations"
)

// AccountLister fetches one page of organization accounts.
// An empty nextToken requests the first page.
type AccountLister interface {
	ListAccounts(ctx context.Context, nextToken string) (Page, error)
}

// SDKLister adapts the AWS SDK Organizations client to AccountLister.
type SDKLister struct {
	api organizations.ListAccountsAPIClient
}

var _ AccountLister = (*SDKLister)(nil)

// NewSDKLister wraps api, typically an *organizations.Client.
func NewSDKLister(api organizations.ListAccountsAPIClient) *SDKLister {
	return &SDKLister{api: api}
}

// ListAccounts calls organizations:ListAccounts once.
func (l *SDKLister) ListAccounts(ctx context.Context, nextToken string) (Page, error) {
	input := &organizations.ListAccountsInput{}
	if nextToken != "" {
		input.NextToken = aws.String(nextToken)
	}

	out, err := l.api.ListAccounts(ctx, input)
	if err != nil {
		return Page{}, err
	}

	if out == nil {
		return Page{}, nil
	}

	page := Page{
		Accounts:  make([]Account, 0, len(out.Accounts)),
		NextToken: aws.ToString(out.NextToken),
	}

	for _, account := range out.Accounts {
		page.Accounts = append(page.Accounts, accountFromSDK(account))
	}

	return page, nil
}

// NewClient builds an Organizations client for cfg.Region using the default
// AWS credential chain (environment, shared config, instance role).
func NewClient(ctx context.Context, cfg *Config) (*organizations.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return organizations.NewFromConfig(awsCfg), nil
}
