package widget

import (
	"context"
	"sync"

	"beforeafter/models"
)

type fakeHost struct {
	mu       sync.Mutex
	mode     models.ViewMode
	layout   *models.Layout
	session  models.HostSession
	resized  []models.Size
	resizeCh chan models.Size
}

func newFakeHost(mode models.ViewMode) *fakeHost {
	return &fakeHost{
		mode:     mode,
		resizeCh: make(chan models.Size, 16),
		session: models.HostSession{
			InstanceID:  "inst-1",
			SiteOwnerID: "owner-1",
			UserID:      "user-1",
			Locale:      "en",
			ViewMode:    mode,
		},
	}
}

func (h *fakeHost) Locale() string              { return h.session.Locale }
func (h *fakeHost) ViewMode() models.ViewMode   { return h.mode }
func (h *fakeHost) Session() models.HostSession { return h.session }

func (h *fakeHost) ResizeComponent(_ context.Context, size models.Size) error {
	h.mu.Lock()
	h.resized = append(h.resized, size)
	h.mu.Unlock()
	h.resizeCh <- size
	return nil
}

func (h *fakeHost) Layout(context.Context) (models.Layout, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.layout == nil {
		return models.Layout{}, ErrLayoutUnavailable
	}
	return *h.layout, nil
}

func (h *fakeHost) Resized() []models.Size {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]models.Size(nil), h.resized...)
}

// fakeMeasurer returns a fixed size per source and records every call
type fakeMeasurer struct {
	mu    sync.Mutex
	sizes map[string]models.Size
	calls []string
	block chan struct{}
}

func (m *fakeMeasurer) Measure(ctx context.Context, src string) (models.Size, error) {
	m.mu.Lock()
	m.calls = append(m.calls, src)
	block := m.block
	size, ok := m.sizes[src]
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return models.Size{}, ctx.Err()
		}
	}
	if !ok {
		return models.Size{}, ErrNoImage
	}
	return size, nil
}

func (m *fakeMeasurer) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

type persisted struct {
	Action models.Action
	State  models.ElementState
}

type fakePersister struct {
	mu    sync.Mutex
	calls []persisted
}

func (p *fakePersister) Persist(action models.Action, state models.ElementState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, persisted{action, state})
}

func (p *fakePersister) Calls() []persisted {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]persisted(nil), p.calls...)
}
