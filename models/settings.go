package models

// Orientation of the before and after images
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// Normalized maps anything but "vertical" to horizontal
func (o Orientation) Normalized() Orientation {
	if o == Vertical {
		return Vertical
	}
	return Horizontal
}

// Mouseover actions
const (
	MouseoverNone    = 0
	MouseoverOverlay = 1
	MouseoverMove    = 2
)

// HandleAnimationPulse prepends a pulse indicator to the drag handle
const HandleAnimationPulse = 2

// DarkModeOn is the only sliderDarkMode value that enables the dark theme
const DarkModeOn = "dark"

// WidgetSettings is the payload the host settings panel sends on every edit
type WidgetSettings struct {
	BeforeImage             string      `json:"beforeImage"`
	AfterImage              string      `json:"afterImage"`
	BeforeImageThumbnail    string      `json:"beforeImageThumbnail,omitempty"`
	AfterImageThumbnail     string      `json:"afterImageThumbnail,omitempty"`
	BeforeLabelText         string      `json:"beforeLabelText"`
	AfterLabelText          string      `json:"afterLabelText"`
	BeforeAltText           string      `json:"beforeAltText"`
	AfterAltText            string      `json:"afterAltText"`
	SliderOffset            Number      `json:"sliderOffset"`
	SliderOffsetFloat       Number      `json:"sliderOffsetFloat"`
	SliderOrientation       Orientation `json:"sliderOrientation"`
	SliderMouseoverAction   Number      `json:"sliderMouseoverAction"`
	SliderHandleAnimation   Number      `json:"sliderHandleAnimation"`
	SliderMoveOnClickToggle BoolLike    `json:"sliderMoveOnClickToggle"`
	SliderHandleBorderColor string      `json:"sliderHandleBorderColor,omitempty"`
	SliderDarkMode          string      `json:"sliderDarkMode,omitempty"`
}

// Normalize fills sliderOffsetFloat from the integer percent when only the
// integer form was sent. With neither present both stay empty and the
// slider opens at its default offset.
func (s *WidgetSettings) Normalize() {
	if s.SliderOffsetFloat.Set() {
		return
	}
	if pct, ok := s.SliderOffset.Float(); ok {
		s.SliderOffsetFloat = FloatNumber(pct / 100)
	}
}

// MouseoverAction is the parsed sliderMouseoverAction. Absent or
// unparseable values select the default overlay action.
func (s WidgetSettings) MouseoverAction() int {
	return numberOr(s.SliderMouseoverAction, MouseoverOverlay)
}

func numberOr(n Number, def int) int {
	if v, ok := n.Int(); ok {
		return v
	}
	return def
}

// DataAttr is one entry of an element's dataset
type DataAttr struct {
	Key   string
	Value string
}

// DataAttributes lists every settings field in dataset form, in a fixed order
func (s WidgetSettings) DataAttributes() []DataAttr {
	return []DataAttr{
		{DataBeforeImage, s.BeforeImage},
		{DataBeforeImageThumbnail, s.BeforeImageThumbnail},
		{DataBeforeLabelText, s.BeforeLabelText},
		{DataBeforeAltText, s.BeforeAltText},
		{DataAfterImage, s.AfterImage},
		{DataAfterImageThumbnail, s.AfterImageThumbnail},
		{DataAfterLabelText, s.AfterLabelText},
		{DataAfterAltText, s.AfterAltText},
		{DataSliderOffset, s.SliderOffset.String()},
		{DataSliderOffsetFloat, s.SliderOffsetFloat.String()},
		{DataSliderOrientation, string(s.SliderOrientation)},
		{DataSliderMouseoverAction, s.SliderMouseoverAction.String()},
		{DataSliderHandleAnimation, s.SliderHandleAnimation.String()},
		{DataSliderMoveOnClickToggle, s.SliderMoveOnClickToggle.String()},
		{DataSliderHandleBorderColor, s.SliderHandleBorderColor},
		{DataSliderDarkMode, s.SliderDarkMode},
	}
}

// DisplayFlags are derived from sliderMouseoverAction
type DisplayFlags struct {
	NoOverlay   bool `json:"noOverlay"`
	MoveOnHover bool `json:"moveOnHover"`
}

// DeriveDisplayFlags maps the tri-state mouseover action onto the two plugin
// booleans. Values other than 0 and 2 keep the default overlay behaviour.
func DeriveDisplayFlags(action int) DisplayFlags {
	switch action {
	case MouseoverMove:
		return DisplayFlags{NoOverlay: false, MoveOnHover: true}
	case MouseoverNone:
		return DisplayFlags{NoOverlay: true, MoveOnHover: false}
	default:
		return DisplayFlags{}
	}
}
