package awsorg

import (
	"context"
	"fmt"
)

// fakeLister serves pages in order and records the token of every request.
type fakeLister struct {
	pages  []Page
	failAt int // 1-based request number that fails; 0 never fails
	err    error
	tokens []string
}

func (f *fakeLister) ListAccounts(_ context.Context, nextToken string) (Page, error) {
	f.tokens = append(f.tokens, nextToken)
	n := len(f.tokens)

	if n == f.failAt {
		return Page{}, f.err
	}

	if n > len(f.pages) {
		return Page{}, fmt.Errorf("unexpected request %d", n)
	}

	return f.pages[n-1], nil
}

func testAccount(name, orgID, accountID string) Account {
	return Account{
		ID:   accountID,
		Name: name,
		ARN:  "arn:aws:organizations::123456789012:account/" + orgID + "/" + accountID,
	}
}

// twoPages is two accounts plus a token, then one account and no token.
func twoPages() []Page {
	return []Page{
		{
			Accounts: []Account{
				testAccount("Payments Prod", "o-abc123", "111111111111"),
				testAccount("Payments Dev", "o-abc123", "222222222222"),
			},
			NextToken: "token-2",
		},
		{
			Accounts: []Account{
				testAccount("Security Audit", "o-abc123", "333333333333"),
			},
		},
	}
}
