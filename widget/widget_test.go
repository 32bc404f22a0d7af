package widget

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beforeafter/dom"
	"beforeafter/models"
)

func newTestWidget(t *testing.T, mode models.ViewMode) (*Widget, *fakeHost, *fakePersister, *[]dom.Batch) {
	t.Helper()
	host := newFakeHost(mode)
	persister := &fakePersister{}
	var mu sync.Mutex
	batches := &[]dom.Batch{}

	w, err := New("comp-1", Options{
		Host:      host,
		Measurer:  newMeasurer(),
		Persister: persister,
		Resizer:   ResizerOptions{Delay: testDelay},
		OnPatches: func(b dom.Batch) {
			mu.Lock()
			*batches = append(*batches, b)
			mu.Unlock()
		},
	})
	require.NoError(t, err)
	t.Cleanup(w.Close)
	return w, host, persister, batches
}

func TestNewWidgetIsInitialized(t *testing.T) {
	w, _, persister, _ := newTestWidget(t, models.ViewModeSite)

	assert.Equal(t, "comp-1", w.ID())
	require.NotNil(t, w.Slider())
	assert.InDelta(t, 0.5, w.Slider().Config.OffsetPct, 1e-9)
	assert.Contains(t, w.HTML(), ClassHandle)
	assert.Empty(t, persister.Calls())

	_, err := New(" ", Options{})
	assert.Error(t, err)
}

func TestUpdateSettingsFlow(t *testing.T) {
	w, host, persister, batches := newTestWidget(t, models.ViewModeSite)
	s := sampleSettings()
	s.BeforeImage = "a.jpg"
	s.AfterImage = "c.jpg"

	upd, err := w.UpdateSettings(s)
	require.NoError(t, err)
	assert.Equal(t, models.Vertical, upd.Slider.Config.Orientation)
	assert.InDelta(t, 0.3, upd.Slider.Config.OffsetPct, 1e-9)
	assert.NotEmpty(t, upd.Patches)

	require.Len(t, *batches, 1)
	assert.Equal(t, "comp-1", (*batches)[0].WidgetID)
	assert.NotEmpty(t, (*batches)[0].ID)

	calls := persister.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, models.ActionPublish, calls[0].Action)
	assert.Equal(t, "comp-1", calls[0].State.SliderID)
	assert.Equal(t, "owner-1", calls[0].State.SiteID)
	assert.Equal(t, "user-1", calls[0].State.UserID)
	assert.Equal(t, "inst-1", calls[0].State.InstanceID)
	assert.Equal(t, "a.jpg", calls[0].State.BeforeImage)

	assert.Equal(t, models.Size{Width: 800, Height: 600}, waitResize(t, host))
}

func TestUpdateSettingsTwiceKeepsOneArtifactSet(t *testing.T) {
	w, _, _, _ := newTestWidget(t, models.ViewModeSite)
	for i := 0; i < 2; i++ {
		_, err := w.UpdateSettings(sampleSettings())
		require.NoError(t, err)
	}
	assertSingleArtifactSet(t, w.doc, true)
}

func TestStateMirrorsLatestSettings(t *testing.T) {
	w, _, _, _ := newTestWidget(t, models.ViewModeSite)
	s := sampleSettings()
	_, err := w.UpdateSettings(s)
	require.NoError(t, err)

	s.BeforeLabelText = "Earlier"
	s.SliderOrientation = models.Horizontal
	_, err = w.UpdateSettings(s)
	require.NoError(t, err)

	state := w.State()
	assert.Equal(t, "Earlier", state.BeforeLabelText)
	assert.Equal(t, "horizontal", state.SliderOrientation)
}

func TestSaveAndDelete(t *testing.T) {
	w, host, persister, _ := newTestWidget(t, models.ViewModeSite)
	_, err := w.UpdateSettings(sampleSettings())
	require.NoError(t, err)

	w.Save()
	w.Delete()
	assert.True(t, w.Deleted())

	calls := persister.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, models.ActionSave, calls[1].Action)
	assert.Equal(t, models.ActionDelete, calls[2].Action)
	assert.Equal(t, "comp-1", calls[2].State.SliderID)

	// The pending resize was canceled by Delete.
	time.Sleep(5 * testDelay)
	assert.Empty(t, host.Resized())
}
