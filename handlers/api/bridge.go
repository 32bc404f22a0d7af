package api

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"beforeafter/dom"
	"beforeafter/models"
	"beforeafter/utils"
	"beforeafter/widget"
)

// Message types exchanged with the editor page
const (
	MessagePatch         = "patch"
	MessageResize        = "resize"
	MessageFullWidth     = "full-width"
	MessageLayoutRequest = "layout-request"
	MessageLayout        = "layout" // inbound
)

// Message is one frame on the editor bridge
type Message struct {
	ID       string      `json:"id"`
	Type     string      `json:"type"`
	WidgetID string      `json:"widgetId"`
	Data     interface{} `json:"data,omitempty"`
	Time     time.Time   `json:"time"`
}

type inboundMessage struct {
	Type   string        `json:"type"`
	Layout models.Layout `json:"layout"`
}

// Bridge connects widgets to the pages that display them. The page holding
// a widget subscribes over a websocket and replays what the widget emits:
// DOM patches, iframe resize requests and full-width notices. It reports
// the widget's bounding rect and page offsets back.
type Bridge struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]chan Message
	layouts     map[string]models.Layout
	waiters     map[string][]chan struct{}
	hosts       map[string]*BridgeHost

	// LayoutWait bounds how long Layout waits for a page to report
	LayoutWait time.Duration
}

// NewBridge creates an empty bridge
func NewBridge() *Bridge {
	return &Bridge{
		subscribers: make(map[string]map[string]chan Message),
		layouts:     make(map[string]models.Layout),
		waiters:     make(map[string][]chan struct{}),
		hosts:       make(map[string]*BridgeHost),
		LayoutWait:  500 * time.Millisecond,
	}
}

// HandleWebSocket serves /ws/widget/:id
func (b *Bridge) HandleWebSocket(c *websocket.Conn) {
	widgetID := c.Params("id")
	subscriberID, messages := b.subscribe(widgetID)

	defer func() {
		b.unsubscribe(widgetID, subscriberID)
		c.Close()
		utils.Log.Info("Bridge subscriber disconnected: %s (widget %s)", subscriberID, widgetID)
	}()
	utils.Log.Info("Bridge subscriber connected: %s (widget %s)", subscriberID, widgetID)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var in inboundMessage
			if err := c.ReadJSON(&in); err != nil {
				return
			}
			if in.Type == MessageLayout {
				b.SetLayout(widgetID, in.Layout)
			}
		}
	}()

	for {
		select {
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if err := c.WriteJSON(msg); err != nil {
				utils.Log.Error("Failed to send bridge message: %v", err)
				return
			}
		case <-done:
			return
		}
	}
}

func (b *Bridge) subscribe(widgetID string) (string, chan Message) {
	id := uuid.New().String()
	ch := make(chan Message, 16)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subscribers[widgetID] == nil {
		b.subscribers[widgetID] = make(map[string]chan Message)
	}
	b.subscribers[widgetID][id] = ch
	return id, ch
}

func (b *Bridge) unsubscribe(widgetID, subscriberID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subscribers[widgetID]
	if ch, ok := subs[subscriberID]; ok {
		delete(subs, subscriberID)
		close(ch)
	}
	if len(subs) == 0 {
		delete(b.subscribers, widgetID)
	}
}

// Subscribers returns how many pages follow widgetID
func (b *Bridge) Subscribers(widgetID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[widgetID])
}

// Broadcast sends msg to every subscriber of its widget, returning how many
// received it. Full subscriber queues are skipped.
func (b *Bridge) Broadcast(msg Message) int {
	msg.ID = uuid.New().String()
	msg.Time = time.Now()

	b.mu.RLock()
	defer b.mu.RUnlock()

	sent := 0
	for subscriberID, ch := range b.subscribers[msg.WidgetID] {
		select {
		case ch <- msg:
			sent++
		default:
			utils.Log.Warn("Bridge channel full for subscriber %s", subscriberID)
		}
	}
	utils.Log.Debug("Broadcast %s for widget %s to %d subscribers", msg.Type, msg.WidgetID, sent)
	return sent
}

// SendPatches forwards a widget's patch batch
func (b *Bridge) SendPatches(batch dom.Batch) {
	b.Broadcast(Message{Type: MessagePatch, WidgetID: batch.WidgetID, Data: batch})
}

// NotifyFullWidth tells the page the widget spans the page width
func (b *Bridge) NotifyFullWidth(widgetID string, size models.Size) {
	b.Broadcast(Message{Type: MessageFullWidth, WidgetID: widgetID, Data: size})
}

// SetLayout records a layout report and wakes pending Layout calls
func (b *Bridge) SetLayout(widgetID string, layout models.Layout) {
	b.mu.Lock()
	b.layouts[widgetID] = layout
	waiters := b.waiters[widgetID]
	delete(b.waiters, widgetID)
	b.mu.Unlock()

	for _, w := range waiters {
		close(w)
	}
}

// Layout returns the last reported layout of widgetID. Without one it asks
// the subscribed pages and waits for a report until ctx ends or LayoutWait
// elapses.
func (b *Bridge) Layout(ctx context.Context, widgetID string) (models.Layout, error) {
	b.mu.Lock()
	if layout, ok := b.layouts[widgetID]; ok {
		b.mu.Unlock()
		return layout, nil
	}
	if len(b.subscribers[widgetID]) == 0 {
		b.mu.Unlock()
		return models.Layout{}, widget.ErrLayoutUnavailable
	}
	wait := make(chan struct{})
	b.waiters[widgetID] = append(b.waiters[widgetID], wait)
	b.mu.Unlock()

	b.Broadcast(Message{Type: MessageLayoutRequest, WidgetID: widgetID})

	timer := time.NewTimer(b.LayoutWait)
	defer timer.Stop()
	select {
	case <-wait:
		b.mu.RLock()
		layout, ok := b.layouts[widgetID]
		b.mu.RUnlock()
		if ok {
			return layout, nil
		}
	case <-timer.C:
	case <-ctx.Done():
		return models.Layout{}, ctx.Err()
	}
	return models.Layout{}, widget.ErrLayoutUnavailable
}

// Host returns the widget.Host of widgetID, creating it on first use
func (b *Bridge) Host(widgetID string) *BridgeHost {
	b.mu.Lock()
	defer b.mu.Unlock()
	h, ok := b.hosts[widgetID]
	if !ok {
		h = &BridgeHost{bridge: b, widgetID: widgetID, session: models.HostSession{ViewMode: models.ViewModeSite}}
		b.hosts[widgetID] = h
	}
	return h
}

// Forget drops everything the bridge knows about widgetID except live
// subscriptions.
func (b *Bridge) Forget(widgetID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.layouts, widgetID)
	delete(b.hosts, widgetID)
}

// BridgeHost is the host platform as seen by one widget. Its session is the
// one carried by the latest host event.
type BridgeHost struct {
	bridge   *Bridge
	widgetID string

	mu      sync.RWMutex
	session models.HostSession
}

// SetSession records the identity of the latest host event
func (h *BridgeHost) SetSession(s models.HostSession) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.session = s
}

func (h *BridgeHost) Session() models.HostSession {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.session
}

func (h *BridgeHost) Locale() string {
	return h.Session().Locale
}

func (h *BridgeHost) ViewMode() models.ViewMode {
	return h.Session().ViewMode
}

// ResizeComponent asks the subscribed pages to resize the iframe
func (h *BridgeHost) ResizeComponent(ctx context.Context, size models.Size) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if h.bridge.Broadcast(Message{Type: MessageResize, WidgetID: h.widgetID, Data: size}) == 0 {
		utils.Log.Debug("No page follows widget %s, resize to %dx%d dropped", h.widgetID, size.Width, size.Height)
	}
	return nil
}

func (h *BridgeHost) Layout(ctx context.Context) (models.Layout, error) {
	return h.bridge.Layout(ctx, h.widgetID)
}
