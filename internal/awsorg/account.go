package awsorg

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/organizations/types"
)

type (
	// Account is a member account as returned by the Organizations API.
	// Only Name and ARN are used for mapping; the rest is carried for logging.
	Account struct {
		ID       string
		ARN      string
		Name     string
		Email    string
		Status   string
		JoinedAt time.Time
	}

	// Page is one ListAccounts response. An empty NextToken marks the last page.
	Page struct {
		Accounts  []Account
		NextToken string
	}
)

func accountFromSDK(a types.Account) Account {
	return Account{
		ID:       aws.ToString(a.Id),
		ARN:      aws.ToString(a.Arn),
		Name:     aws.ToString(a.Name),
		Email:    aws.ToString(a.Email),
		Status:   string(a.Status),
		JoinedAt: aws.ToTime(a.JoinedTimestamp),
	}
}
