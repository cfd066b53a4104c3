package analysis

import (
	"context"
	"sync"

	"github.com/jonathan/resume-tailor/internal/types"
)

type usageKey struct{}

// usageMeter sums the tokens reported by analyzers of one collection
type usageMeter struct {
	mu    sync.Mutex
	total types.TokenUsage
}

func withUsageMeter(ctx context.Context) (context.Context, *usageMeter) {
	m := &usageMeter{}
	return context.WithValue(ctx, usageKey{}, m), m
}

func (m *usageMeter) sum() types.TokenUsage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.total
}

// ReportUsage charges tokens spent by an analyzer to the collection running
// under ctx. Outside a collection it does nothing.
func ReportUsage(ctx context.Context, usage types.TokenUsage) {
	m, ok := ctx.Value(usageKey{}).(*usageMeter)
	if !ok {
		return
	}
	m.mu.Lock()
	m.total = m.total.Add(usage)
	m.mu.Unlock()
}
