package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/scy"
)

// DefaultSecretKey encrypts secrets with the blowfish kms; callers must import
// github.com/viant/scy/kms/blowfish to register it.
const DefaultSecretKey = "blowfish://default"

// SecretSink persists the credential record as an encrypted scy secret.
type SecretSink struct {
	mu      sync.Mutex
	fs      afs.Service
	secrets *scy.Service
	URL     string
	Key     string
}

func (s *SecretSink) Save(ctx context.Context, bearer, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, err := s.load(ctx)
	if err != nil {
		return err
	}
	if record == nil {
		record = &Record{}
	}
	record.merge(bearer, refresh)
	resource := scy.NewResource(record, s.URL, s.Key)
	if err = s.secrets.Store(ctx, scy.NewSecret(record, resource)); err != nil {
		return fmt.Errorf("failed to store secret %v: %w", s.URL, err)
	}
	return nil
}

func (s *SecretSink) Load(ctx context.Context) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *SecretSink) load(ctx context.Context) (*Record, error) {
	if ok, err := s.fs.Exists(ctx, s.URL); err != nil || !ok {
		return nil, err
	}
	secret, err := s.secrets.Load(ctx, scy.NewResource(&Record{}, s.URL, s.Key))
	if err != nil {
		return nil, fmt.Errorf("failed to load secret %v: %w", s.URL, err)
	}
	record, ok := secret.Target.(*Record)
	if !ok {
		return nil, fmt.Errorf("unexpected secret type %T at %v", secret.Target, s.URL)
	}
	return record, nil
}

// NewSecretSink creates a sink storing an encrypted record at URL with key;
// an empty key uses DefaultSecretKey.
func NewSecretSink(URL, key string) *SecretSink {
	if key == "" {
		key = DefaultSecretKey
	}
	return &SecretSink{fs: afs.New(), secrets: scy.New(), URL: URL, Key: key}
}
