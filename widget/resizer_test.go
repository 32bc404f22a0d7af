package widget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beforeafter/models"
)

const testDelay = 20 * time.Millisecond

func newMeasurer() *fakeMeasurer {
	return &fakeMeasurer{sizes: map[string]models.Size{
		"a.jpg": {Width: 800, Height: 600},
		"b.jpg": {Width: 640, Height: 480},
		"c.jpg": {Width: 500, Height: 250},
	}}
}

func waitResize(t *testing.T, h *fakeHost) models.Size {
	t.Helper()
	select {
	case s := <-h.resizeCh:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("no resize request")
		return models.Size{}
	}
}

func TestResizerDebouncesToLastRequest(t *testing.T) {
	host := newFakeHost(models.ViewModeSite)
	m := newMeasurer()
	r := NewResizer(host, m, ResizerOptions{Delay: testDelay})
	defer r.Close()

	r.Schedule(ResizeRequest{WidgetID: "w", BeforeImage: "a.jpg"})
	r.Schedule(ResizeRequest{WidgetID: "w", BeforeImage: "b.jpg"})
	r.Schedule(ResizeRequest{WidgetID: "w", BeforeImage: "c.jpg"})

	assert.Equal(t, models.Size{Width: 500, Height: 250}, waitResize(t, host))
	time.Sleep(5 * testDelay)

	assert.Equal(t, []string{"c.jpg"}, m.Calls())
	assert.Len(t, host.Resized(), 1)
}

func TestResizerUsesBeforeImage(t *testing.T) {
	host := newFakeHost(models.ViewModeSite)
	r := NewResizer(host, newMeasurer(), ResizerOptions{Delay: testDelay})
	defer r.Close()

	r.Schedule(ResizeRequest{WidgetID: "w", BeforeImage: "a.jpg", AfterImage: "c.jpg"})
	assert.Equal(t, models.Size{Width: 800, Height: 600}, waitResize(t, host))
}

func TestResizerFullWidthInEditor(t *testing.T) {
	host := newFakeHost(models.ViewModeEditor)
	host.layout = &models.Layout{
		Rect:    models.Rect{Width: 1000, Height: 400},
		Offsets: models.Offsets{Left: 4, Right: 10},
	}
	r := NewResizer(host, newMeasurer(), ResizerOptions{Delay: testDelay, FullWidthThreshold: 10})
	defer r.Close()

	got := make(chan models.Size, 1)
	r.OnFullWidth(func(s models.Size) { got <- s })
	r.Schedule(ResizeRequest{WidgetID: "w", BeforeImage: "c.jpg"})

	select {
	case s := <-got:
		assert.Equal(t, models.Size{Width: 1000, Height: 500}, s)
	case <-time.After(2 * time.Second):
		t.Fatal("no full-width notification")
	}
	time.Sleep(3 * testDelay)
	assert.Empty(t, host.Resized())
}

func TestResizerEditorWithMarginsResizes(t *testing.T) {
	host := newFakeHost(models.ViewModeEditor)
	host.layout = &models.Layout{
		Rect:    models.Rect{Width: 600},
		Offsets: models.Offsets{Left: 4, Right: 200},
	}
	r := NewResizer(host, newMeasurer(), ResizerOptions{Delay: testDelay})
	defer r.Close()

	fullWidth := false
	r.OnFullWidth(func(models.Size) { fullWidth = true })
	r.Schedule(ResizeRequest{WidgetID: "w", BeforeImage: "b.jpg"})

	assert.Equal(t, models.Size{Width: 640, Height: 480}, waitResize(t, host))
	assert.False(t, fullWidth)
}

func TestResizerEditorWithoutLayoutResizes(t *testing.T) {
	host := newFakeHost(models.ViewModeEditor)
	r := NewResizer(host, newMeasurer(), ResizerOptions{Delay: testDelay})
	defer r.Close()

	r.Schedule(ResizeRequest{WidgetID: "w", BeforeImage: "a.jpg"})
	assert.Equal(t, models.Size{Width: 800, Height: 600}, waitResize(t, host))
}

func TestResizerCancelsInFlightMeasurement(t *testing.T) {
	host := newFakeHost(models.ViewModeSite)
	m := newMeasurer()
	m.block = make(chan struct{})
	r := NewResizer(host, m, ResizerOptions{Delay: testDelay})
	defer r.Close()

	results := make(chan ResizeResult, 4)
	r.OnResult(func(res ResizeResult) { results <- res })

	r.Schedule(ResizeRequest{WidgetID: "w", BeforeImage: "a.jpg"})
	require.Eventually(t, func() bool { return len(m.Calls()) == 1 }, time.Second, time.Millisecond)

	m.mu.Lock()
	m.block = nil
	m.mu.Unlock()
	r.Schedule(ResizeRequest{WidgetID: "w", BeforeImage: "b.jpg"})

	select {
	case res := <-results:
		assert.Equal(t, "b.jpg", res.Request.BeforeImage)
		assert.NoError(t, res.Err)
	case <-time.After(2 * time.Second):
		t.Fatal("no result")
	}
	assert.Equal(t, []models.Size{{Width: 640, Height: 480}}, host.Resized())
	assert.Empty(t, results)
}

func TestResizerCancelAndClose(t *testing.T) {
	host := newFakeHost(models.ViewModeSite)
	m := newMeasurer()
	r := NewResizer(host, m, ResizerOptions{Delay: testDelay})

	r.Schedule(ResizeRequest{WidgetID: "w", BeforeImage: "a.jpg"})
	r.Cancel()
	r.Close()
	r.Schedule(ResizeRequest{WidgetID: "w", BeforeImage: "b.jpg"})

	time.Sleep(5 * testDelay)
	assert.Empty(t, m.Calls())
	assert.Empty(t, host.Resized())
}

func TestFullWidthSize(t *testing.T) {
	assert.Equal(t, models.Size{Width: 1200, Height: 900}, fullWidthSize(models.Rect{Width: 1200}, models.Size{Width: 800, Height: 600}))
	assert.Equal(t, models.Size{Width: 300, Height: 50}, fullWidthSize(models.Rect{Width: 300}, models.Size{Height: 50}))
}
