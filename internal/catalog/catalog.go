package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"

	"service-advisor/internal/shared/storage/object"
)

// ErrDataUnavailable is returned when a local data document cannot be read.
var ErrDataUnavailable = errors.New("data unavailable")

var errNoStore = fmt.Errorf("%w: no store configured", ErrDataUnavailable)

const maxDocumentBytes = 8 << 20

// Source reads the transaction history and service catalog documents. The
// contents are opaque JSON text and are returned without being parsed.
type Source struct {
	Store           object.ObjectStore
	TransactionsKey string
	ServicesKey     string
}

// NewSource constructs a Source.
func NewSource(store object.ObjectStore, transactionsKey, servicesKey string) *Source {
	return &Source{Store: store, TransactionsKey: transactionsKey, ServicesKey: servicesKey}
}

// Transactions returns the raw transaction list document.
func (s *Source) Transactions(ctx context.Context) (string, error) {
	if s == nil {
		return "", errNoStore
	}
	return s.read(ctx, s.TransactionsKey)
}

// Services returns the raw service catalog document.
func (s *Source) Services(ctx context.Context) (string, error) {
	if s == nil {
		return "", errNoStore
	}
	return s.read(ctx, s.ServicesKey)
}

func (s *Source) read(ctx context.Context, key string) (string, error) {
	if s.Store == nil {
		return "", errNoStore
	}
	rc, err := s.Store.Open(ctx, key)
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %v", ErrDataUnavailable, key, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxDocumentBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", ErrDataUnavailable, key, err)
	}
	if len(data) > maxDocumentBytes {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrDataUnavailable, key, maxDocumentBytes)
	}
	return string(data), nil
}
