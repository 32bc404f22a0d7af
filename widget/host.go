package widget

import (
	"context"

	"beforeafter/models"
)

// Host is the site-builder platform as seen from one widget iframe
type Host interface {
	Locale() string
	ViewMode() models.ViewMode
	Session() models.HostSession
	// ResizeComponent asks the host to resize the iframe hosting the widget
	ResizeComponent(ctx context.Context, size models.Size) error
	// Layout returns the widget's bounding rectangle and page offsets
	Layout(ctx context.Context) (models.Layout, error)
}

// Measurer reports the rendered size of an image
type Measurer interface {
	Measure(ctx context.Context, src string) (models.Size, error)
}

// Persister sends the element mirror to the backend without waiting for it
type Persister interface {
	Persist(action models.Action, state models.ElementState)
}

// ParseAction validates an action tag
func ParseAction(s string) (models.Action, error) {
	switch a := models.Action(s); a {
	case models.ActionSave, models.ActionPublish, models.ActionDelete:
		return a, nil
	default:
		return "", ErrUnknownAction
	}
}
