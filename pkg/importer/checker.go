package importer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// checkConcurrency bounds the HEAD requests in flight during one sweep.
const checkConcurrency = 4

// Checker periodically verifies that every import source URL still answers,
// and records the status in the source table.
type Checker struct {
	sources  *SourceDB
	logger   *slog.Logger
	interval time.Duration
	client   *http.Client
}

// NewChecker creates a Checker that will verify source URLs every interval.
func NewChecker(sources *SourceDB, logger *slog.Logger, interval time.Duration) *Checker {
	return &Checker{
		sources:  sources,
		logger:   logger,
		interval: interval,
		client: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Start runs an immediate check then repeats every interval until ctx is cancelled.
func (c *Checker) Start(ctx context.Context) {
	c.CheckAll(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.CheckAll(ctx)
		}
	}
}

// CheckSummary counts the outcome of one sweep.
type CheckSummary struct {
	Total  int
	OK     int
	Failed int
}

// CheckAll checks every source URL and persists the result. 2xx and 3xx
// statuses count as available.
func (c *Checker) CheckAll(ctx context.Context) CheckSummary {
	sources, err := c.sources.ListSources()
	if err != nil {
		c.logger.Error("source check: list sources", "error", err)
		return CheckSummary{}
	}
	if len(sources) == 0 {
		return CheckSummary{}
	}

	var ok, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(checkConcurrency)
	for _, src := range sources {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			status, checkErr := c.checkOne(ctx, src.SourceURL)
			errMsg := ""
			if checkErr != nil {
				errMsg = checkErr.Error()
			}

			if err := c.sources.UpdateCheck(src.AdapterID, status, errMsg); err != nil {
				c.logger.Error("source check: record result", "adapter", src.AdapterID, "error", err)
			}

			if status >= 200 && status < 400 {
				ok.Add(1)
				return nil
			}
			failed.Add(1)
			c.logger.Warn("source unavailable",
				"adapter", src.AdapterID,
				"url", src.SourceURL,
				"status", status,
				"error", errMsg,
			)
			return nil
		})
	}
	_ = g.Wait()

	sum := CheckSummary{OK: int(ok.Load()), Failed: int(failed.Load())}
	sum.Total = sum.OK + sum.Failed
	c.logger.Info("source check complete", "total", sum.Total, "ok", sum.OK, "failed", sum.Failed)
	return sum
}

// checkOne performs a HEAD request and returns the HTTP status code.
// Servers that refuse HEAD get a one-byte ranged GET instead.
// On network error, status is 0.
func (c *Checker) checkOne(ctx context.Context, url string) (int, error) {
	status, err := c.probe(ctx, http.MethodHead, url)
	if err == nil && status == http.StatusMethodNotAllowed {
		return c.probe(ctx, http.MethodGet, url)
	}
	return status, err
}

func (c *Checker) probe(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	if method == http.MethodGet {
		req.Header.Set("Range", "bytes=0-0")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, url, err)
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
