package models

// Dataset keys written on the slider container
const (
	DataSliderID                = "sliderId"
	DataSiteID                  = "siteId"
	DataUserID                  = "userId"
	DataInstanceID              = "instanceId"
	DataBeforeImage             = "beforeImage"
	DataBeforeImageThumbnail    = "beforeImageThumbnail"
	DataBeforeLabelText         = "beforeLabelText"
	DataBeforeAltText           = "beforeAltText"
	DataAfterImage              = "afterImage"
	DataAfterImageThumbnail     = "afterImageThumbnail"
	DataAfterLabelText          = "afterLabelText"
	DataAfterAltText            = "afterAltText"
	DataSliderOffset            = "sliderOffset"
	DataSliderOffsetFloat       = "sliderOffsetFloat"
	DataSliderOrientation       = "sliderOrientation"
	DataSliderMouseoverAction   = "sliderMouseoverAction"
	DataSliderHandleAnimation   = "sliderHandleAnimation"
	DataSliderMoveOnClickToggle = "sliderMoveOnClickToggle"
	DataSliderHandleBorderColor = "sliderHandleBorderColor"
	DataSliderDarkMode          = "sliderDarkMode"
)

// ElementState is the slider container's dataset read back as a struct.
// Values keep their attribute (string) form.
type ElementState struct {
	SliderID   string `json:"sliderId"`
	SiteID     string `json:"siteId"`
	UserID     string `json:"userId"`
	InstanceID string `json:"instanceId"`
	SettingsMirror
}

// SettingsMirror is the part of the dataset written from WidgetSettings
type SettingsMirror struct {
	BeforeImage             string `json:"beforeImage"`
	BeforeImageThumbnail    string `json:"beforeImageThumbnail"`
	BeforeLabelText         string `json:"beforeLabelText"`
	BeforeAltText           string `json:"beforeAltText"`
	AfterImage              string `json:"afterImage"`
	AfterImageThumbnail     string `json:"afterImageThumbnail"`
	AfterLabelText          string `json:"afterLabelText"`
	AfterAltText            string `json:"afterAltText"`
	SliderOffset            string `json:"sliderOffset"`
	SliderOffsetFloat       string `json:"sliderOffsetFloat"`
	SliderOrientation       string `json:"sliderOrientation"`
	SliderMouseoverAction   string `json:"sliderMouseoverAction"`
	SliderHandleAnimation   string `json:"sliderHandleAnimation"`
	SliderMoveOnClickToggle string `json:"sliderMoveOnClickToggle"`
	SliderHandleBorderColor string `json:"sliderHandleBorderColor"`
	SliderDarkMode          string `json:"sliderDarkMode"`
}

// StateFromDataset reads the mirror out of a dataset map
func StateFromDataset(data map[string]string) ElementState {
	return ElementState{
		SliderID:   data[DataSliderID],
		SiteID:     data[DataSiteID],
		UserID:     data[DataUserID],
		InstanceID: data[DataInstanceID],
		SettingsMirror: SettingsMirror{
			BeforeImage:             data[DataBeforeImage],
			BeforeImageThumbnail:    data[DataBeforeImageThumbnail],
			BeforeLabelText:         data[DataBeforeLabelText],
			BeforeAltText:           data[DataBeforeAltText],
			AfterImage:              data[DataAfterImage],
			AfterImageThumbnail:     data[DataAfterImageThumbnail],
			AfterLabelText:          data[DataAfterLabelText],
			AfterAltText:            data[DataAfterAltText],
			SliderOffset:            data[DataSliderOffset],
			SliderOffsetFloat:       data[DataSliderOffsetFloat],
			SliderOrientation:       data[DataSliderOrientation],
			SliderMouseoverAction:   data[DataSliderMouseoverAction],
			SliderHandleAnimation:   data[DataSliderHandleAnimation],
			SliderMoveOnClickToggle: data[DataSliderMoveOnClickToggle],
			SliderHandleBorderColor: data[DataSliderHandleBorderColor],
			SliderDarkMode:          data[DataSliderDarkMode],
		},
	}
}

// OffsetFraction returns the initial reveal offset in [0,1]. The fractional
// form wins; the integer percent is used when the fraction is absent. The
// plugin default of 0.5 applies when neither parses.
func (s SettingsMirror) OffsetFraction() float64 {
	if f, ok := Number(s.SliderOffsetFloat).Float(); ok && f > 0 {
		return clampFraction(f)
	}
	if n, ok := Number(s.SliderOffset).Float(); ok {
		return clampFraction(n / 100)
	}
	if s.SliderOffsetFloat == "0" {
		return 0
	}
	return 0.5
}

func clampFraction(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

// MouseoverAction parses sliderMouseoverAction; unparseable values map to
// the default overlay action.
func (s SettingsMirror) MouseoverAction() int {
	return numberOr(Number(s.SliderMouseoverAction), MouseoverOverlay)
}

// HandleAnimation parses sliderHandleAnimation, 0 when absent
func (s SettingsMirror) HandleAnimation() int {
	return numberOr(Number(s.SliderHandleAnimation), 0)
}

// MoveOnClick parses sliderMoveOnClickToggle
func (s SettingsMirror) MoveOnClick() bool {
	return ParseBoolLike(s.SliderMoveOnClickToggle)
}

// DataAttributes lists the mirror in dataset form, in the same order as
// WidgetSettings.DataAttributes
func (s SettingsMirror) DataAttributes() []DataAttr {
	return []DataAttr{
		{DataBeforeImage, s.BeforeImage},
		{DataBeforeImageThumbnail, s.BeforeImageThumbnail},
		{DataBeforeLabelText, s.BeforeLabelText},
		{DataBeforeAltText, s.BeforeAltText},
		{DataAfterImage, s.AfterImage},
		{DataAfterImageThumbnail, s.AfterImageThumbnail},
		{DataAfterLabelText, s.AfterLabelText},
		{DataAfterAltText, s.AfterAltText},
		{DataSliderOffset, s.SliderOffset},
		{DataSliderOffsetFloat, s.SliderOffsetFloat},
		{DataSliderOrientation, s.SliderOrientation},
		{DataSliderMouseoverAction, s.SliderMouseoverAction},
		{DataSliderHandleAnimation, s.SliderHandleAnimation},
		{DataSliderMoveOnClickToggle, s.SliderMoveOnClickToggle},
		{DataSliderHandleBorderColor, s.SliderHandleBorderColor},
		{DataSliderDarkMode, s.SliderDarkMode},
	}
}
