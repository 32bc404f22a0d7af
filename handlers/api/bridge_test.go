package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beforeafter/dom"
	"beforeafter/models"
	"beforeafter/widget"
)

func receive(t *testing.T, ch chan Message) Message {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("no bridge message")
		return Message{}
	}
}

func TestBridgeBroadcastTargetsWidget(t *testing.T) {
	b := NewBridge()
	_, a := b.subscribe("comp-a")
	_, other := b.subscribe("comp-b")

	b.SendPatches(dom.Batch{WidgetID: "comp-a", Seq: 1})

	msg := receive(t, a)
	assert.Equal(t, MessagePatch, msg.Type)
	assert.NotEmpty(t, msg.ID)
	assert.Len(t, other, 0)
}

func TestBridgeUnsubscribeClosesChannel(t *testing.T) {
	b := NewBridge()
	id, ch := b.subscribe("comp-1")
	require.Equal(t, 1, b.Subscribers("comp-1"))

	b.unsubscribe("comp-1", id)
	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, b.Subscribers("comp-1"))
	assert.Equal(t, 0, b.Broadcast(Message{Type: MessageResize, WidgetID: "comp-1"}))
}

func TestBridgeLayoutCached(t *testing.T) {
	b := NewBridge()
	want := models.Layout{Rect: models.Rect{Width: 980}, Offsets: models.Offsets{Left: 3, Right: 2}}
	b.SetLayout("comp-1", want)

	got, err := b.Host("comp-1").Layout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBridgeLayoutWithoutSubscribers(t *testing.T) {
	b := NewBridge()
	_, err := b.Layout(context.Background(), "comp-1")
	assert.ErrorIs(t, err, widget.ErrLayoutUnavailable)
}

func TestBridgeLayoutRequestsReport(t *testing.T) {
	b := NewBridge()
	_, ch := b.subscribe("comp-1")
	want := models.Layout{Rect: models.Rect{Width: 640}}

	go func() {
		msg := <-ch
		if msg.Type == MessageLayoutRequest {
			b.SetLayout("comp-1", want)
		}
	}()

	got, err := b.Layout(context.Background(), "comp-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestBridgeLayoutTimesOut(t *testing.T) {
	b := NewBridge()
	b.LayoutWait = 20 * time.Millisecond
	_, ch := b.subscribe("comp-1")

	_, err := b.Layout(context.Background(), "comp-1")
	assert.ErrorIs(t, err, widget.ErrLayoutUnavailable)
	assert.Equal(t, MessageLayoutRequest, receive(t, ch).Type)
}

func TestBridgeHostSessionAndResize(t *testing.T) {
	b := NewBridge()
	h := b.Host("comp-1")
	assert.Same(t, h, b.Host("comp-1"))
	assert.Equal(t, models.ViewModeSite, h.ViewMode())

	h.SetSession(models.HostSession{Locale: "fr", ViewMode: models.ViewModeEditor})
	assert.Equal(t, "fr", h.Locale())
	assert.Equal(t, models.ViewModeEditor, h.ViewMode())

	// No subscribers: dropped without error
	require.NoError(t, h.ResizeComponent(context.Background(), models.Size{Width: 10, Height: 5}))

	_, ch := b.subscribe("comp-1")
	require.NoError(t, h.ResizeComponent(context.Background(), models.Size{Width: 400, Height: 300}))
	msg := receive(t, ch)
	assert.Equal(t, MessageResize, msg.Type)
	assert.Equal(t, models.Size{Width: 400, Height: 300}, msg.Data)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, h.ResizeComponent(ctx, models.Size{}), context.Canceled)
}

func TestBridgeForget(t *testing.T) {
	b := NewBridge()
	h := b.Host("comp-1")
	b.SetLayout("comp-1", models.Layout{})
	b.Forget("comp-1")

	assert.NotSame(t, h, b.Host("comp-1"))
	_, err := b.Layout(context.Background(), "comp-1")
	assert.ErrorIs(t, err, widget.ErrLayoutUnavailable)
}
