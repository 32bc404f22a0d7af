package widget

import "errors"

var (
	// ErrElementNotFound means the widget DOM is not mounted
	ErrElementNotFound = errors.New("widget element not found")
	// ErrContainerNotFound means the slider container is missing from the document
	ErrContainerNotFound = errors.New("slider container not found")
	// ErrLayoutUnavailable means the host has not reported the widget's layout yet
	ErrLayoutUnavailable = errors.New("host layout unavailable")
	// ErrNoImage means there is no image source to measure
	ErrNoImage = errors.New("no image to measure")
	// ErrUnsafeImageURL is returned for image sources that are not http(s) URLs
	ErrUnsafeImageURL = errors.New("image URL must be http or https")
	// ErrPrivateAddress is returned when an image host is loopback, private or link-local
	ErrPrivateAddress = errors.New("image host is a private or loopback address")
	// ErrHostNotAllowed is returned when an allowlist is set and the image host is not on it
	ErrHostNotAllowed = errors.New("image host is not allowed")
	// ErrUnknownAction is returned for persistence actions other than save, publish and delete
	ErrUnknownAction = errors.New("unknown persistence action")
)
