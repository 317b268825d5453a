package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// FileSink persists the credential record as JSON at any afs URL
// (local path, mem://, gs://, s3://...). Local writes go to a temporary file
// renamed over the destination; other storages are uploaded in place.
type FileSink struct {
	mu  sync.Mutex
	fs  afs.Service
	URL string
}

func (f *FileSink) Save(ctx context.Context, bearer, refresh string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, err := f.load(ctx)
	if err != nil {
		return err
	}
	if record == nil {
		record = &Record{}
	}
	record.merge(bearer, refresh)
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	if url.Scheme(f.URL, file.Scheme) != file.Scheme {
		if err = f.fs.Upload(ctx, f.URL, 0o600, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("failed to write credentials %v: %w", f.URL, err)
		}
		return nil
	}
	return f.writeLocal(url.Path(f.URL), data)
}

func (f *FileSink) writeLocal(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create credentials dir %v: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials %v: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace credentials %v: %w", path, err)
	}
	return nil
}

func (f *FileSink) Load(ctx context.Context) (*Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load(ctx)
}

func (f *FileSink) load(ctx context.Context) (*Record, error) {
	exists, err := f.fs.Exists(ctx, f.URL)
	if err != nil || !exists {
		return nil, err
	}
	data, err := f.fs.DownloadWithURL(ctx, f.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials %v: %w", f.URL, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	record := &Record{}
	if err = json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("failed to parse credentials %v: %w", f.URL, err)
	}
	return record, nil
}

// NewFileSink creates a sink persisting at URL.
func NewFileSink(URL string) *FileSink {
	return &FileSink{fs: afs.New(), URL: URL}
}
