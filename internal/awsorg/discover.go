package awsorg

import (
	"context"
	"errors"
	"fmt"
	"iter"
)

// ErrListAccounts wraps any failure of a ListAccounts page request.
// The underlying client error stays reachable through errors.Is / errors.As.
var ErrListAccounts = errors.New("failed to list organization accounts")

// Pages yields ListAccounts responses in order, starting without a token and
// following NextToken until a page omits it. A failed request is yielded once
// as an error and ends the sequence. Pages are fetched lazily, one at a time.
func Pages(ctx context.Context, lister AccountLister) iter.Seq2[Page, error] {
	return func(yield func(Page, error) bool) {
		var token string

		for {
			page, err := lister.ListAccounts(ctx, token)
			if err != nil {
				yield(Page{}, err)

				return
			}

			if !yield(page, nil) || page.NextToken == "" {
				return
			}

			token = page.NextToken
		}
	}
}

// Discover returns every account of the organization in page order.
// On error the accounts gathered so far are dropped.
func Discover(ctx context.Context, lister AccountLister) ([]Account, error) {
	var (
		accounts []Account
		pageNum  int
	)

	for page, err := range Pages(ctx, lister) {
		pageNum++

		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", ErrListAccounts, pageNum, err)
		}

		accounts = append(accounts, page.Accounts...)
	}

	return accounts, nil
}
