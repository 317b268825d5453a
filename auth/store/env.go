package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

const (
	DefaultBearerKey  = "X_BEARER_TOKEN"
	DefaultRefreshKey = "X_REFRESH_TOKEN"
)

// EnvSink keeps credentials as `export KEY=value` lines of a dotenv file so
// that a shell can source it. Unrelated lines are preserved.
type EnvSink struct {
	mu         sync.Mutex
	Path       string
	BearerKey  string
	RefreshKey string
}

func (e *EnvSink) Save(ctx context.Context, bearer, refresh string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	data, err := os.ReadFile(e.Path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read %v: %w", e.Path, err)
	}
	var lines []string
	if content := strings.TrimRight(string(data), "\n"); content != "" {
		lines = strings.Split(content, "\n")
	}
	lines = ensureExport(lines, e.BearerKey, bearer)
	if refresh != "" {
		lines = ensureExport(lines, e.RefreshKey, refresh)
	}
	if err = os.WriteFile(e.Path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write %v: %w", e.Path, err)
	}
	return nil
}

func (e *EnvSink) Load(ctx context.Context) (*Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := os.Stat(e.Path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	values, err := godotenv.Read(e.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %v: %w", e.Path, err)
	}
	record := &Record{BearerToken: values[e.BearerKey], RefreshToken: values[e.RefreshKey]}
	if record.BearerToken == "" && record.RefreshToken == "" {
		return nil, nil
	}
	return record, nil
}

func ensureExport(lines []string, key, value string) []string {
	prefix := "export " + key + "="
	line := prefix + value
	for i, candidate := range lines {
		if strings.HasPrefix(candidate, prefix) {
			lines[i] = line
			return lines
		}
	}
	return append(lines, line)
}

// NewEnvSink creates a sink for the dotenv file at path.
func NewEnvSink(path string) *EnvSink {
	return &EnvSink{Path: path, BearerKey: DefaultBearerKey, RefreshKey: DefaultRefreshKey}
}
