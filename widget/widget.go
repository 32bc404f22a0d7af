// Package widget keeps one before/after slider in sync with the settings
// the host sends: it applies them to the widget DOM, rebuilds the slider,
// resizes the hosting iframe and persists the applied state.
package widget

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"beforeafter/dom"
	"beforeafter/models"
	"beforeafter/utils"
)

// Options wires a widget to its collaborators
type Options struct {
	Host      Host
	Measurer  Measurer
	Persister Persister
	Resizer   ResizerOptions
	// OnPatches receives the DOM changes of every event, in order
	OnPatches func(dom.Batch)
}

// Update is the outcome of one settings change
type Update struct {
	Flags   models.DisplayFlags `json:"flags"`
	Slider  *Slider             `json:"slider"`
	Patches []dom.Patch         `json:"patches"`
}

// Widget is one mounted slider. Host events may arrive on concurrent
// goroutines; mu serializes them so each runs to completion in order.
type Widget struct {
	ids       models.ElementIDs
	host      Host
	persister Persister
	resizer   *Resizer
	onPatches func(dom.Batch)

	mu      sync.Mutex
	doc     *dom.Document
	slider  *Slider
	seq     uint64
	deleted bool
}

// New mounts the widget markup and initializes the slider with defaults
func New(extensionID string, opts Options) (*Widget, error) {
	if strings.TrimSpace(extensionID) == "" {
		return nil, fmt.Errorf("%w: empty extension id", ErrElementNotFound)
	}
	ids := models.ElementIDs{Extension: extensionID}
	w := &Widget{
		ids:       ids,
		host:      opts.Host,
		persister: opts.Persister,
		resizer:   NewResizer(opts.Host, opts.Measurer, opts.Resizer),
		onPatches: opts.OnPatches,
		doc:       MountDocument(ids),
	}

	state := w.stateLocked()
	slider, _, err := ReinitializeSlider(w.doc, ids, ConfigFromState(state, models.DeriveDisplayFlags(state.MouseoverAction())))
	if err != nil {
		return nil, err
	}
	w.slider = slider
	return w, nil
}

// ID returns the extension id
func (w *Widget) ID() string {
	return w.ids.Extension
}

// Resizer exposes the widget's resizer for listener registration
func (w *Widget) Resizer() *Resizer {
	return w.resizer
}

// UpdateSettings handles a settings-change event: apply, rebuild the slider,
// schedule a resize, then publish the applied state.
func (w *Widget) UpdateSettings(settings models.WidgetSettings) (*Update, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	log := utils.Log.WithField("widget", w.ids.Extension)

	flags, err := ApplySettings(w.doc, w.ids, settings)
	if err != nil {
		log.Error("Failed to apply settings: %v", err)
		return nil, err
	}
	var patches []dom.Patch
	if container := w.doc.GetElementByID(w.ids.Container()); container != nil {
		patches = append(patches, modifyPatch(container))
	}
	patches = append(patches, w.imagePatches()...)
	if root := w.doc.GetElementByID(w.ids.Root()); root != nil {
		patches = append(patches, modifyPatch(root))
	}

	state := w.stateLocked()
	slider, sliderPatches, err := ReinitializeSlider(w.doc, w.ids, ConfigFromState(state, flags))
	if err != nil {
		log.Error("Failed to reinitialize slider: %v", err)
		return nil, err
	}
	w.slider = slider
	patches = append(patches, sliderPatches...)
	w.emit(patches)

	w.resizer.Schedule(ResizeRequest{
		WidgetID:    w.ids.Extension,
		BeforeImage: state.BeforeImage,
		AfterImage:  state.AfterImage,
	})

	w.stampIdentityLocked()
	w.persist(models.ActionPublish)

	log.Info("Applied settings (noOverlay=%t, moveOnHover=%t, %d patches)", flags.NoOverlay, flags.MoveOnHover, len(patches))
	return &Update{Flags: flags, Slider: slider, Patches: patches}, nil
}

// Save persists the current state with the save action
func (w *Widget) Save() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stampIdentityLocked()
	w.persist(models.ActionSave)
}

// Delete cancels pending resizes and tells the backend the widget is gone
func (w *Widget) Delete() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.resizer.Cancel()
	w.persist(models.ActionDelete)
	w.deleted = true
}

// Deleted reports whether Delete has been called
func (w *Widget) Deleted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.deleted
}

// State reads the element mirror back from the container dataset
func (w *Widget) State() models.ElementState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stateLocked()
}

// Slider returns the current slider instance
func (w *Widget) Slider() *Slider {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.slider
}

// HTML renders the widget markup
func (w *Widget) HTML() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	root := w.doc.GetElementByID(w.ids.Root())
	if root == nil {
		return ""
	}
	return dom.RenderString(root)
}

// Close stops the resizer
func (w *Widget) Close() {
	w.resizer.Close()
}

func (w *Widget) stateLocked() models.ElementState {
	container := w.doc.GetElementByID(w.ids.Container())
	if container == nil {
		return models.ElementState{SliderID: w.ids.Extension}
	}
	return models.StateFromDataset(container.Dataset())
}

// stampIdentityLocked writes the host identity onto the container so that
// the mirror carries it.
func (w *Widget) stampIdentityLocked() {
	container := w.doc.GetElementByID(w.ids.Container())
	if container == nil || w.host == nil {
		return
	}
	session := w.host.Session()
	container.SetData(models.DataSliderID, w.ids.Extension)
	container.SetData(models.DataSiteID, session.SiteOwnerID)
	container.SetData(models.DataUserID, session.UserID)
	container.SetData(models.DataInstanceID, session.InstanceID)
}

func (w *Widget) persist(action models.Action) {
	if w.persister == nil {
		return
	}
	state := w.stateLocked()
	if state.SliderID == "" {
		state.SliderID = w.ids.Extension
	}
	w.persister.Persist(action, state)
}

func (w *Widget) imagePatches() []dom.Patch {
	var patches []dom.Patch
	for _, id := range []string{w.ids.BeforeImage(), w.ids.AfterImage()} {
		if el := w.doc.GetElementByID(id); el != nil {
			patches = append(patches, modifyPatch(el))
		}
	}
	return patches
}

func (w *Widget) emit(patches []dom.Patch) {
	w.seq++
	if w.onPatches == nil || len(patches) == 0 {
		return
	}
	w.onPatches(dom.Batch{
		ID:       uuid.NewString(),
		WidgetID: w.ids.Extension,
		Seq:      w.seq,
		Patches:  patches,
	})
}
