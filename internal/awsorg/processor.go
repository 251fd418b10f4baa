package awsorg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudcatalog/ingester/internal/catalog"
)

// ErrMalformedARN is emitted under ARNPolicyStrict for accounts whose ARN lacks
// an account id or organization id.
var ErrMalformedARN = errors.New("account ARN does not contain organization and account id")

type (
	// Processor reads "aws-organization" locations.
	//
	// It holds no per-read state, so one Processor may serve concurrent reads as
	// long as its AccountLister is safe for concurrent use.
	Processor struct {
		catalog.NopHooks

		lister AccountLister
		policy ARNPolicy
		logger *slog.Logger
	}

	// Option configures a Processor.
	Option func(*Processor)
)

var _ catalog.Processor = (*Processor)(nil)

// WithARNPolicy sets the policy for accounts with malformed ARNs.
func WithARNPolicy(policy ARNPolicy) Option {
	return func(p *Processor) {
		p.policy = policy
	}
}

// WithLogger sets the processor logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// NewProcessor creates a Processor listing accounts through lister.
// Defaults: ARNPolicyLenient, slog.Default().
func NewProcessor(lister AccountLister, opts ...Option) *Processor {
	p := &Processor{
		lister: lister,
		policy: ARNPolicyLenient,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// ReadLocation lists every account of the organization and emits one entity per
// account, in page order. Locations of another type are declined without any
// API call.
func (p *Processor) ReadLocation(
	ctx context.Context,
	location catalog.Location,
	_ bool,
	emit catalog.Emit,
) (bool, error) {
	if location.Type != LocationType {
		return false, nil
	}

	start := time.Now()

	accounts, err := Discover(ctx, p.lister)
	if err != nil {
		return false, err
	}

	var rejected int

	for _, account := range accounts {
		entity, identity := mapAccount(account)

		if p.policy == ARNPolicyStrict && !identity.Valid() {
			rejected++

			emit(catalog.ErrorResult(location, fmt.Errorf(
				"%w: account %q (%s identity) arn %q",
				ErrMalformedARN, account.ID, identity.Kind, account.ARN,
			)))

			continue
		}

		emit(catalog.EntityResult(location, entity))
	}

	p.logger.Info("Read AWS organization",
		slog.String("location_type", location.Type),
		slog.String("location_target", location.Target),
		slog.Int("accounts", len(accounts)),
		slog.Int("rejected", rejected),
		slog.Duration("duration", time.Since(start)),
	)

	return true, nil
}
