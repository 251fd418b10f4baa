package awsorg

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

// InstrumentedLister records request counts, latency and returned accounts for
// every ListAccounts page, and logs each page at debug level.
type InstrumentedLister struct {
	next     AccountLister
	logger   *slog.Logger
	requests *prometheus.CounterVec
	latency  prometheus.Histogram
	accounts prometheus.Counter
}

var _ AccountLister = (*InstrumentedLister)(nil)

// NewInstrumentedLister registers its collectors on reg.
func NewInstrumentedLister(next AccountLister, reg prometheus.Registerer, logger *slog.Logger) *InstrumentedLister {
	factory := promauto.With(reg)

	return &InstrumentedLister{
		next:   next,
		logger: logger,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ingester",
			Subsystem: "aws_organizations",
			Name:      "list_accounts_requests_total",
			Help:      "ListAccounts page requests by outcome.",
		}, []string{"outcome"}),
		latency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ingester",
			Subsystem: "aws_organizations",
			Name:      "list_accounts_duration_seconds",
			Help:      "ListAccounts page request latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		accounts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ingester",
			Subsystem: "aws_organizations",
			Name:      "accounts_listed_total",
			Help:      "Accounts returned by ListAccounts.",
		}),
	}
}

// ListAccounts delegates and records the outcome.
func (l *InstrumentedLister) ListAccounts(ctx context.Context, nextToken string) (Page, error) {
	start := time.Now()
	page, err := l.next.ListAccounts(ctx, nextToken)
	elapsed := time.Since(start)

	l.latency.Observe(elapsed.Seconds())

	if err != nil {
		l.requests.WithLabelValues(outcomeError).Inc()
		l.logger.Debug("ListAccounts page failed",
			slog.Bool("continuation", nextToken != ""),
			slog.Duration("duration", elapsed),
			slog.String("error", err.Error()),
		)

		return page, err
	}

	l.requests.WithLabelValues(outcomeSuccess).Inc()
	l.accounts.Add(float64(len(page.Accounts)))
	l.logger.Debug("ListAccounts page fetched",
		slog.Bool("continuation", nextToken != ""),
		slog.Int("accounts", len(page.Accounts)),
		slog.Bool("has_next", page.NextToken != ""),
		slog.Duration("duration", elapsed),
	)

	return page, nil
}
