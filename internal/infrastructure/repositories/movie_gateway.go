package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/avatarctic/movie-catalog-proxy/internal/core/domain/movie"
	"github.com/avatarctic/movie-catalog-proxy/internal/core/ports"
	"github.com/avatarctic/movie-catalog-proxy/internal/infrastructure/tmdb"
)

const (
	PopularMoviesKey = "popular_movies"
	DefaultCacheTTL  = 30 * time.Second
)

// FavoriteMoviesKey is the cache key of an account's favorites.
func FavoriteMoviesKey(accountID string) string { return "favorite_movies_" + accountID }

// RatedMoviesKey is the cache key of an account's rated movies.
func RatedMoviesKey(accountID string) string { return "rated_movies_" + accountID }

// MovieGateway is the only component deciding cache-vs-upstream for reads.
// Writes go straight upstream and leave cached reads in place until they expire.
type MovieGateway struct {
	client  ports.UpstreamClient
	cache   ports.ResponseCache
	account ports.AccountContext
	ttl     time.Duration
	logger  *logrus.Logger
	sf      singleflight.Group
}

// NewMovieGateway wires the upstream client and response cache for one account.
func NewMovieGateway(client ports.UpstreamClient, cache ports.ResponseCache, account ports.AccountContext, ttl time.Duration, logger *logrus.Logger) *MovieGateway {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MovieGateway{client: client, cache: cache, account: account, ttl: ttl, logger: logger}
}

func (g *MovieGateway) accountPath(suffix string) string {
	return "/account/" + url.PathEscape(g.account.AccountID) + suffix
}

func (g *MovieGateway) GetPopularMovies(ctx context.Context) (*movie.Envelope, error) {
	return g.cachedList(ctx, PopularMoviesKey, &ports.UpstreamRequest{
		Operation: "popular_movies",
		Method:    http.MethodGet,
		Path:      "/movie/popular",
	})
}

func (g *MovieGateway) GetFavoriteMovies(ctx context.Context) (*movie.Envelope, error) {
	return g.cachedList(ctx, FavoriteMoviesKey(g.account.AccountID), &ports.UpstreamRequest{
		Operation:     "favorite_movies",
		Method:        http.MethodGet,
		Path:          g.accountPath("/favorite/movies"),
		Authenticated: true,
	})
}

func (g *MovieGateway) GetRatedMovies(ctx context.Context) (*movie.Envelope, error) {
	return g.cachedList(ctx, RatedMoviesKey(g.account.AccountID), &ports.UpstreamRequest{
		Operation:     "rated_movies",
		Method:        http.MethodGet,
		Path:          g.accountPath("/rated/movies"),
		Authenticated: true,
	})
}

func (g *MovieGateway) AddFavoriteMovie(ctx context.Context, mediaID int64) (*movie.UpstreamResponse, error) {
	return g.write(ctx, &ports.UpstreamRequest{
		Operation:     "add_favorite_movie",
		Method:        http.MethodPost,
		Path:          g.accountPath("/favorite"),
		Body:          movie.NewFavoriteUpdate(mediaID, true),
		Authenticated: true,
	})
}

func (g *MovieGateway) DeleteFavoriteMovie(ctx context.Context, mediaID int64) (*movie.UpstreamResponse, error) {
	return g.write(ctx, &ports.UpstreamRequest{
		Operation:     "delete_favorite_movie",
		Method:        http.MethodPost,
		Path:          g.accountPath("/favorite"),
		Body:          movie.NewFavoriteUpdate(mediaID, false),
		Authenticated: true,
	})
}

// RateMovie forwards the rating as is; range checks belong to the caller.
func (g *MovieGateway) RateMovie(ctx context.Context, movieID int64, rating float64) (*movie.UpstreamResponse, error) {
	return g.write(ctx, &ports.UpstreamRequest{
		Operation:     "rate_movie",
		Method:        http.MethodPost,
		Path:          fmt.Sprintf("/movie/%d/rating", movieID),
		Body:          movie.RatingValue{Value: rating},
		Authenticated: true,
	})
}

// cachedList serves key from cache or loads it upstream. Concurrent misses on the
// same key share one upstream call, which runs detached from any single caller so
// one caller going away does not fail the others. Only successful, decodable
// bodies are cached.
func (g *MovieGateway) cachedList(ctx context.Context, key string, req *ports.UpstreamRequest) (*movie.Envelope, error) {
	if env, ok := g.cached(ctx, key, true); ok {
		return env, nil
	}

	ch := g.sf.DoChan(key, func() (any, error) {
		loadCtx := context.WithoutCancel(ctx)
		// a flight that finished while this caller was missing may have filled the entry
		if env, ok := g.cached(loadCtx, key, false); ok {
			return env, nil
		}
		resp, err := g.client.Call(loadCtx, req)
		if err != nil {
			return nil, err
		}
		env, err := movie.DecodeEnvelope(resp.Body)
		if err != nil {
			return nil, err
		}
		g.cache.Put(loadCtx, key, resp.Body, g.ttl)
		return env, nil
	})

	select {
	case <-ctx.Done():
		if g.logger != nil {
			g.logger.WithFields(logrus.Fields{"op": req.Operation, "key": key}).WithError(ctx.Err()).Debug("caller left before upstream load finished")
		}
		return nil, fmt.Errorf("%s: %w: %w", req.Operation, movie.ErrNoResponse, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			g.logFailure(req.Operation, res.Err)
			return nil, fmt.Errorf("%s: %w: %w", req.Operation, movie.ErrNoResponse, res.Err)
		}
		env, ok := res.Val.(*movie.Envelope)
		if !ok {
			return nil, fmt.Errorf("%s: %w: unexpected type from singleflight result", req.Operation, movie.ErrNoResponse)
		}
		return env, nil
	}
}

// cached returns the decoded entry for key. Undecodable entries count as misses.
func (g *MovieGateway) cached(ctx context.Context, key string, logBad bool) (*movie.Envelope, bool) {
	b, ok := g.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}
	env, err := movie.DecodeEnvelope(b)
	if err != nil {
		if logBad && g.logger != nil {
			g.logger.WithField("key", key).WithError(err).Warn("discarding undecodable cache entry")
		}
		return nil, false
	}
	return env, true
}

func (g *MovieGateway) write(ctx context.Context, req *ports.UpstreamRequest) (*movie.UpstreamResponse, error) {
	resp, err := g.client.Call(ctx, req)
	if err != nil {
		g.logFailure(req.Operation, err)
		return nil, fmt.Errorf("%s: %w: %w", req.Operation, movie.ErrNoResponse, err)
	}
	if g.logger != nil {
		g.logger.WithFields(logrus.Fields{"op": req.Operation, "status": resp.StatusCode}).Debug("upstream write accepted")
	}
	return &movie.UpstreamResponse{StatusCode: resp.StatusCode, Body: jsonBody(resp.Body)}, nil
}

// logFailure logs server errors apart from other upstream statuses.
func (g *MovieGateway) logFailure(op string, err error) {
	if g.logger == nil {
		return
	}
	entry := g.logger.WithField("op", op).WithError(err)

	var statusErr *tmdb.HTTPStatusError
	switch {
	case errors.As(err, &statusErr) && statusErr.IsServerError():
		entry.WithField("status", statusErr.Status).Error("movie catalog server error")
	case errors.As(err, &statusErr):
		entry.WithFields(logrus.Fields{"status": statusErr.Status, "body": string(statusErr.Body)}).Warn("movie catalog rejected request")
	case errors.Is(err, tmdb.ErrRetriesExhausted):
		entry.Error("movie catalog unreachable after retries")
	case errors.Is(err, movie.ErrInvalidEnvelope):
		entry.Error("movie catalog returned an unusable payload")
	default:
		entry.Error("movie catalog call failed")
	}
}

// jsonBody keeps JSON bodies verbatim and wraps anything else as a JSON string.
func jsonBody(b []byte) json.RawMessage {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	if json.Valid(b) {
		return json.RawMessage(b)
	}
	quoted, err := json.Marshal(string(b))
	if err != nil {
		return nil
	}
	return quoted
}
