package oracle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/mcoot/wordcrush/internal/model"
)

var errServerFailure = errors.New("dictionary server failure")

// HTTPConfig configures the remote dictionary oracle
type HTTPConfig struct {
	// BaseURL is prefixed to the lowercased word, e.g. https://api.dictionaryapi.dev/api/v2/entries/en/
	BaseURL string
	// Timeout bounds each individual request
	Timeout time.Duration
	// Attempts is the total number of tries for transport failures
	Attempts uint
	// RetryDelay is the initial backoff between attempts
	RetryDelay time.Duration
}

// HTTP looks words up against a remote dictionary API.
// A 2xx response means the word exists and any other 4xx means it does not.
// Network errors, timeouts and 5xx responses are transport failures.
type HTTP struct {
	client *http.Client
	cfg    HTTPConfig
	logger *slog.Logger
}

// NewHTTP creates an HTTP oracle
func NewHTTP(cfg HTTPConfig, logger *slog.Logger) *HTTP {
	if cfg.Attempts == 0 {
		cfg.Attempts = 1
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 200 * time.Millisecond
	}
	return &HTTP{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		logger: logger.With(slog.String("component", "oracle")),
	}
}

var _ Oracle = (*HTTP)(nil)

// Lookup queries the remote dictionary for word
func (o *HTTP) Lookup(ctx context.Context, word string) model.LookupOutcome {
	target := strings.TrimRight(o.cfg.BaseURL, "/") + "/" + url.PathEscape(strings.ToLower(word))

	var outcome model.LookupOutcome
	err := retry.Do(
		func() error {
			found, err := o.fetch(ctx, target)
			if err != nil {
				return err
			}
			outcome = found
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(o.cfg.Attempts),
		retry.Delay(o.cfg.RetryDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			o.logger.Warn("lookup failed, retrying",
				slog.String("word", word),
				slog.Uint64("attempt", uint64(n+1)),
				slog.String("error", err.Error()),
			)
		}),
	)
	if err != nil {
		o.logger.Warn("oracle unreachable",
			slog.String("word", word),
			slog.String("error", err.Error()),
		)
		return model.LookupUnreachable
	}

	o.logger.Debug("lookup complete", slog.String("word", word), slog.String("outcome", string(outcome)))
	return outcome
}

func (o *HTTP) fetch(ctx context.Context, target string) (model.LookupOutcome, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", retry.Unrecoverable(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return model.LookupFound, nil
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("%w: status %d", errServerFailure, resp.StatusCode)
	default:
		return model.LookupNotFound, nil
	}
}
