package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/pagebuilder/internal/logging"
	"github.com/dmitrijs2005/pagebuilder/internal/models"
	"github.com/dmitrijs2005/pagebuilder/internal/registry"
	"github.com/stretchr/testify/require"
)

type memSlot struct {
	mu    sync.Mutex
	page  *models.Page
	saves int
	err   error
}

func (m *memSlot) Save(_ context.Context, p models.Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	c := p.Clone()
	m.page = &c
	m.saves++
	return nil
}

func (m *memSlot) Load(context.Context) (models.Page, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.Page{}, false, m.err
	}
	if m.page == nil {
		return models.Page{}, false, nil
	}
	return m.page.Clone(), true, nil
}

func (m *memSlot) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.page = nil
	return nil
}

type logEntry struct {
	level string
	msg   string
}

type recLogger struct {
	mu      sync.Mutex
	entries *[]logEntry
}

func newRecLogger() *recLogger {
	return &recLogger{entries: &[]logEntry{}}
}

func (l *recLogger) add(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*l.entries = append(*l.entries, logEntry{level, msg})
}

func (l *recLogger) Debug(_ context.Context, msg string, _ ...any) { l.add("debug", msg) }
func (l *recLogger) Info(_ context.Context, msg string, _ ...any)  { l.add("info", msg) }
func (l *recLogger) Warn(_ context.Context, msg string, _ ...any)  { l.add("warn", msg) }
func (l *recLogger) Error(_ context.Context, msg string, _ ...any) { l.add("error", msg) }
func (l *recLogger) With(...any) logging.Logger                    { return l }

func (l *recLogger) has(level, msg string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range *l.entries {
		if e.level == level && e.msg == msg {
			return true
		}
	}
	return false
}

var testEpoch = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

// newTestStore returns a store with deterministic ids ("id-1", ...) and a
// clock that advances one second per reading.
func newTestStore(t *testing.T, remote Remote) (*Store, *memSlot, *recLogger) {
	t.Helper()
	reg, err := registry.Default()
	require.NoError(t, err)

	slot := &memSlot{}
	log := newRecLogger()
	s := NewStore(reg, slot, remote, log)

	n := 0
	s.newID = func() string { n++; return fmt.Sprintf("id-%d", n) }
	tick := 0
	s.now = func() time.Time { tick++; return testEpoch.Add(time.Duration(tick) * time.Second) }
	s.page = models.NewEmptyPage("page-1", testEpoch)
	return s, slot, log
}

var errBoom = errors.New("boom")
