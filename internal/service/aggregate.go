package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/microshop/microshop/internal/metrics"
	"github.com/microshop/microshop/internal/model"
	"github.com/microshop/microshop/internal/peer"
)

// Failure sources reported by AggregationError.
const (
	SourcePeer  = "peer"
	SourceStore = "store"
)

// DefaultUsersPath is the users-api list endpoint.
const DefaultUsersPath = "/users"

// AggregationError is returned when either branch of the fan-out fails.
// It matches ErrAggregationFailed and unwraps to the branch error.
type AggregationError struct {
	Source string
	Err    error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregation failed (%s): %v", e.Source, e.Err)
}

// Unwrap returns the branch error.
func (e *AggregationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrAggregationFailed.
func (e *AggregationError) Is(target error) bool {
	return target == ErrAggregationFailed
}

// CollectionFetcher reads a list endpoint of a sibling service.
type CollectionFetcher interface {
	FetchCollection(ctx context.Context, path string) (*peer.Collection, error)
}

// ProductLister lists local products.
type ProductLister interface {
	List(ctx context.Context) ([]*model.Product, error)
}

// Aggregator joins the local product list with the users-api user count.
type Aggregator struct {
	users     CollectionFetcher
	products  ProductLister
	usersPath string
	metrics   metrics.Recorder
	logger    *slog.Logger
}

// NewAggregator creates a new Aggregator.
func NewAggregator(users CollectionFetcher, products ProductLister, recorder metrics.Recorder, logger *slog.Logger) *Aggregator {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		users:     users,
		products:  products,
		usersPath: DefaultUsersPath,
		metrics:   recorder,
		logger:    logger,
	}
}

// Aggregate fetches users and products concurrently and waits for both.
// The first failure cancels the other branch and the whole call fails;
// a partial view is never returned. A users body that is not a JSON array
// counts as zero users.
func (a *Aggregator) Aggregate(ctx context.Context) (*model.AggregatedView, error) {
	start := time.Now()

	var (
		users    *peer.Collection
		products []*model.Product
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		coll, err := a.users.FetchCollection(gctx, a.usersPath)
		if err != nil {
			return &AggregationError{Source: SourcePeer, Err: err}
		}
		users = coll
		return nil
	})

	g.Go(func() error {
		list, err := a.products.List(gctx)
		if err != nil {
			return &AggregationError{Source: SourceStore, Err: err}
		}
		products = list
		return nil
	})

	if err := g.Wait(); err != nil {
		outcome := "error"
		if aggErr, ok := err.(*AggregationError); ok {
			outcome = aggErr.Source + "_error"
		}
		a.metrics.ObserveAggregation(outcome, time.Since(start))
		a.logger.Warn("aggregation_failed",
			"outcome", outcome,
			"duration_ms", float64(time.Since(start).Microseconds())/1000,
			"error", err,
		)
		return nil, err
	}

	if products == nil {
		products = []*model.Product{}
	}

	view := &model.AggregatedView{
		Products:   products,
		UsersCount: users.Len(),
	}

	a.metrics.ObserveAggregation("ok", time.Since(start))
	return view, nil
}
