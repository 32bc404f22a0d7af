package widget

import (
	"fmt"

	"beforeafter/dom"
	"beforeafter/models"
	"beforeafter/utils"
)

// mounted are the elements every settings change writes to
type mounted struct {
	root, container, before, after *dom.Element
}

func lookup(doc *dom.Document, ids models.ElementIDs) (mounted, error) {
	var m mounted
	for _, t := range []struct {
		id  string
		dst **dom.Element
	}{
		{ids.Root(), &m.root},
		{ids.Container(), &m.container},
		{ids.BeforeImage(), &m.before},
		{ids.AfterImage(), &m.after},
	} {
		el := doc.GetElementByID(t.id)
		if el == nil {
			return mounted{}, fmt.Errorf("%w: #%s", ErrElementNotFound, t.id)
		}
		*t.dst = el
	}
	return m, nil
}

// ApplySettings writes settings onto the mounted widget: every field into the
// container dataset, src/alt onto the images and the dark class onto the
// root. Nothing is written when an element is missing.
func ApplySettings(doc *dom.Document, ids models.ElementIDs, settings models.WidgetSettings) (models.DisplayFlags, error) {
	m, err := lookup(doc, ids)
	if err != nil {
		return models.DisplayFlags{}, err
	}

	settings.Normalize()
	settings.BeforeLabelText = utils.SanitizeText(settings.BeforeLabelText)
	settings.AfterLabelText = utils.SanitizeText(settings.AfterLabelText)
	settings.BeforeAltText = utils.SanitizeText(settings.BeforeAltText)
	settings.AfterAltText = utils.SanitizeText(settings.AfterAltText)

	for _, kv := range settings.DataAttributes() {
		m.container.SetData(kv.Key, kv.Value)
	}

	m.before.SetAttr("src", settings.BeforeImage)
	m.after.SetAttr("src", settings.AfterImage)
	m.before.SetAttr("alt", settings.BeforeAltText)
	m.after.SetAttr("alt", settings.AfterAltText)

	m.root.ToggleClass(ClassDark, settings.SliderDarkMode == models.DarkModeOn)

	return models.DeriveDisplayFlags(settings.MouseoverAction()), nil
}
