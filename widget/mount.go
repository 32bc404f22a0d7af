package widget

import (
	"beforeafter/dom"
	"beforeafter/models"
)

// Plugin classes. Everything the slider plugin injects carries one of the
// artifact classes and is torn down on reinitialization.
const (
	ClassWidget      = "before-after-widget"
	ClassDark        = "dark"
	ClassContainer   = "twentytwenty-container"
	ClassBefore      = "twentytwenty-before"
	ClassAfter       = "twentytwenty-after"
	ClassWrapper     = "twentytwenty-wrapper"
	ClassOverlay     = "twentytwenty-overlay"
	ClassHandle      = "twentytwenty-handle"
	ClassBeforeLabel = "twentytwenty-before-label"
	ClassAfterLabel  = "twentytwenty-after-label"
	ClassPulser      = "pulser"
)

var arrowClasses = []string{
	"twentytwenty-left-arrow",
	"twentytwenty-right-arrow",
	"twentytwenty-up-arrow",
	"twentytwenty-down-arrow",
}

// MountDocument builds the widget markup before the plugin runs: a root,
// the slider container and the two images.
func MountDocument(ids models.ElementIDs) *dom.Document {
	doc := dom.NewDocument()

	root := dom.NewElement("div", ClassWidget)
	root.ID = ids.Root()

	container := dom.NewElement("div")
	container.ID = ids.Container()
	container.SetData(models.DataSliderID, ids.Extension)

	before := dom.NewElement("img")
	before.ID = ids.BeforeImage()
	after := dom.NewElement("img")
	after.ID = ids.AfterImage()

	container.Append(before, after)
	root.Append(container)
	doc.Body.Append(root)
	return doc
}
