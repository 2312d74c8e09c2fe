package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	"dconn.dev/showcase/internal/models"
)

// LoadState is the outcome of a single load attempt
type LoadState string

const (
	LoadOK     LoadState = "ok"
	LoadEmpty  LoadState = "empty"
	LoadFailed LoadState = "failed"
)

// LoadResult carries the records read from the data source
type LoadResult struct {
	State   LoadState
	Records []models.Record
	Err     error
}

// Loader reads the records document from a file path or http(s) URL
type Loader struct {
	source string
	client *http.Client
	logger *zap.Logger
}

// NewLoader creates a new Loader for source
func NewLoader(source string, logger *zap.Logger) *Loader {
	return &Loader{
		source: source,
		client: http.DefaultClient,
		logger: logger,
	}
}

// Load makes exactly one attempt to read and decode the source.
// It never retries; a failure is logged and returned as LoadFailed.
func (l *Loader) Load(ctx context.Context) LoadResult {
	data, err := l.read(ctx)
	if err != nil {
		l.logger.Error("Error loading data", zap.String("source", l.source), zap.Error(err))
		return LoadResult{State: LoadFailed, Err: err}
	}

	var set models.RecordSet
	if err := json.Unmarshal(data, &set); err != nil {
		err = fmt.Errorf("failed to parse %s: %w", l.source, err)
		l.logger.Error("Error loading data", zap.String("source", l.source), zap.Error(err))
		return LoadResult{State: LoadFailed, Err: err}
	}

	if len(set.Records) == 0 {
		l.logger.Info("data source has no records", zap.String("source", l.source))
		return LoadResult{State: LoadEmpty}
	}

	l.logger.Debug("records loaded",
		zap.String("source", l.source),
		zap.Int("records", len(set.Records)),
	)
	return LoadResult{State: LoadOK, Records: set.Records}
}

func (l *Loader) read(ctx context.Context) ([]byte, error) {
	if !isRemote(l.source) {
		data, err := os.ReadFile(l.source)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", l.source, err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", l.source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %s", l.source, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return data, nil
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
