package testutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrFakeFetch is returned by FakeFetcher for unknown ids.
var ErrFakeFetch = errors.New("fake fetch failed")

// FakeFetcher serves canned LDML bodies and records requested ids.
type FakeFetcher struct {
	mu     sync.Mutex
	bodies map[string]string
	calls  []string
}

// NewFakeFetcher returns a fetcher that knows the given id → body pairs.
func NewFakeFetcher(bodies map[string]string) *FakeFetcher {
	if bodies == nil {
		bodies = map[string]string{}
	}
	return &FakeFetcher{bodies: bodies}
}

func (f *FakeFetcher) Fetch(ctx context.Context, dest, id string) error {
	f.mu.Lock()
	f.calls = append(f.calls, id)
	body, ok := f.bodies[id]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrFakeFetch, id)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, []byte(body), 0o644)
}

// Calls returns the ids requested so far.
func (f *FakeFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}
