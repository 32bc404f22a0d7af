package models

import "time"

// ViewMode is the host's current rendering mode
type ViewMode string

const (
	ViewModeEditor  ViewMode = "editor"
	ViewModePreview ViewMode = "preview"
	ViewModeSite    ViewMode = "site"
)

// Action tags sent to the persistence endpoint
type Action string

const (
	ActionSave    Action = "save"
	ActionPublish Action = "publish"
	ActionDelete  Action = "delete"
)

// Size is a rendered width/height in CSS pixels
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect is the widget's bounding rectangle in the host page
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Offsets are the distances between the widget and the page edges
type Offsets struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Layout is what the host reports about the widget's placement
type Layout struct {
	Rect    Rect    `json:"rect"`
	Offsets Offsets `json:"offsets"`
}

// HostSession is the identity decoded from the host's signed instance
type HostSession struct {
	InstanceID  string    `json:"instanceId"`
	SiteOwnerID string    `json:"siteOwnerId"`
	UserID      string    `json:"uid"`
	Locale      string    `json:"locale,omitempty"`
	ViewMode    ViewMode  `json:"viewMode,omitempty"`
	SignDate    time.Time `json:"signDate"`
}

// ElementIDs derives the fixed element identifiers of one widget
type ElementIDs struct {
	Extension string
}

func (ids ElementIDs) Root() string        { return ids.Extension }
func (ids ElementIDs) Container() string   { return ids.Extension + "-twentytwenty" }
func (ids ElementIDs) BeforeImage() string { return ids.Extension + "-before-image" }
func (ids ElementIDs) AfterImage() string  { return ids.Extension + "-after-image" }
