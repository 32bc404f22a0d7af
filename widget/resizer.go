package widget

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"beforeafter/models"
	"beforeafter/utils"
)

// ResizerOptions configures a Resizer
type ResizerOptions struct {
	// Delay is the debounce window. Default: 250ms.
	Delay time.Duration
	// FullWidthThreshold is the largest left/right page offset, in pixels,
	// at which the widget counts as full width in the editor. Default: 10.
	FullWidthThreshold float64
	// Timeout bounds one measurement. Default: 5s.
	Timeout time.Duration
}

func (o *ResizerOptions) defaults() {
	if o.Delay <= 0 {
		o.Delay = 250 * time.Millisecond
	}
	if o.FullWidthThreshold < 0 {
		o.FullWidthThreshold = 0
	} else if o.FullWidthThreshold == 0 {
		o.FullWidthThreshold = 10
	}
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
}

// ResizeRequest carries the image sources of the latest applied settings
type ResizeRequest struct {
	WidgetID    string
	BeforeImage string
	AfterImage  string
}

// ResizeResult describes what one executed resize did
type ResizeResult struct {
	Request   ResizeRequest
	Size      models.Size
	FullWidth bool
	Err       error
}

// Resizer debounces iframe resize requests. Each Schedule call stops the
// pending timer and cancels a measurement still in flight, so only the most
// recently scheduled computation reaches the host.
type Resizer struct {
	host     Host
	measurer Measurer
	opts     ResizerOptions

	mu        sync.Mutex
	timer     *time.Timer
	seq       uint64
	cancelRun context.CancelFunc
	closed    bool
	listeners []func(models.Size)
	observers []func(ResizeResult)
}

// NewResizer creates a resizer bound to one widget's host
func NewResizer(host Host, measurer Measurer, opts ResizerOptions) *Resizer {
	opts.defaults()
	return &Resizer{host: host, measurer: measurer, opts: opts}
}

// OnFullWidth registers a listener notified with the full dimensions when
// the widget spans the page width in the editor.
func (r *Resizer) OnFullWidth(fn func(models.Size)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// OnResult registers an observer called after every executed computation
func (r *Resizer) OnResult(fn func(ResizeResult)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, fn)
}

// Schedule replaces any pending computation with one for req
func (r *Resizer) Schedule(req ResizeRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	r.stopLocked()
	r.seq++
	seq := r.seq
	r.timer = time.AfterFunc(r.opts.Delay, func() { r.fire(seq, req) })
}

// Cancel drops the pending computation, if any
func (r *Resizer) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
	r.seq++
}

// Close cancels pending work and rejects further scheduling
func (r *Resizer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
	r.seq++
	r.closed = true
}

func (r *Resizer) stopLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	if r.cancelRun != nil {
		r.cancelRun()
		r.cancelRun = nil
	}
}

func (r *Resizer) fire(seq uint64, req ResizeRequest) {
	r.mu.Lock()
	if seq != r.seq || r.closed {
		// Stop lost the race with an already expired timer.
		r.mu.Unlock()
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.opts.Timeout)
	r.timer = nil
	r.cancelRun = cancel
	listeners := append([]func(models.Size){}, r.listeners...)
	observers := append([]func(ResizeResult){}, r.observers...)
	r.mu.Unlock()

	res := r.run(ctx, req, listeners)
	cancel()

	r.mu.Lock()
	if r.seq == seq {
		r.cancelRun = nil
	}
	r.mu.Unlock()

	if errors.Is(res.Err, context.Canceled) {
		return
	}
	for _, fn := range observers {
		fn(res)
	}
}

func (r *Resizer) run(ctx context.Context, req ResizeRequest, listeners []func(models.Size)) ResizeResult {
	log := utils.Log.WithField("widget", req.WidgetID)
	res := ResizeResult{Request: req}

	// The before image is authoritative for both dimensions.
	size, err := r.measurer.Measure(ctx, req.BeforeImage)
	if err != nil {
		log.Warn("Failed to measure before image %q: %v", req.BeforeImage, err)
		res.Err = err
		return res
	}
	res.Size = size
	log.Debug("Measured before image at %dx%d", size.Width, size.Height)

	if r.host.ViewMode() == models.ViewModeEditor {
		layout, err := r.host.Layout(ctx)
		switch {
		case err != nil:
			log.Debug("No layout from host, resizing iframe: %v", err)
		case layout.Offsets.Left <= r.opts.FullWidthThreshold && layout.Offsets.Right <= r.opts.FullWidthThreshold:
			if err := ctx.Err(); err != nil {
				res.Err = err
				return res
			}
			res.FullWidth = true
			res.Size = fullWidthSize(layout.Rect, size)
			log.Info("Widget is full width, notifying %d listeners with %dx%d", len(listeners), res.Size.Width, res.Size.Height)
			for _, fn := range listeners {
				fn(res.Size)
			}
			return res
		}
	}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	if err := r.host.ResizeComponent(ctx, size); err != nil {
		log.Warn("Host rejected resize to %dx%d: %v", size.Width, size.Height, err)
		res.Err = err
		return res
	}
	log.Info("Resized component to %dpx by %dpx", size.Width, size.Height)
	return res
}

// fullWidthSize stretches the measured image to the bounding rect width,
// keeping its aspect ratio.
func fullWidthSize(rect models.Rect, measured models.Size) models.Size {
	width := int(math.Round(rect.Width))
	if measured.Width <= 0 || width <= 0 {
		return models.Size{Width: width, Height: measured.Height}
	}
	height := int(math.Round(float64(measured.Height) * float64(width) / float64(measured.Width)))
	return models.Size{Width: width, Height: height}
}
