package web

import (
	"bytes"
	"html/template"
	"time"

	"github.com/gofiber/fiber/v2"

	"beforeafter/config"
	"beforeafter/dom"
	"beforeafter/handlers/api"
	"beforeafter/middleware"
	"beforeafter/models"
	"beforeafter/utils"
	"beforeafter/widget"
)

// PageHandler serves the widget iframe page and the settings panel
type PageHandler struct {
	config   *config.Config
	views    fiber.Views
	table    *utils.LocaleTable
	registry *widget.Registry
	bridge   *api.Bridge
}

func NewPageHandler(cfg *config.Config, views fiber.Views, table *utils.LocaleTable, registry *widget.Registry, bridge *api.Bridge) *PageHandler {
	return &PageHandler{
		config:   cfg,
		views:    views,
		table:    table,
		registry: registry,
		bridge:   bridge,
	}
}

// componentID reads origCompId (editor) or viewerCompId (live site)
func componentID(c *fiber.Ctx) string {
	if id := c.Query("origCompId"); id != "" {
		return id
	}
	return c.Query("viewerCompId")
}

// ShowWidget renders GET /widget
func (h *PageHandler) ShowWidget(c *fiber.Ctx) error {
	lang := middleware.GetLang(c)
	id := componentID(c)
	if id == "" {
		return utils.NotFoundError(h.table.T(lang, "error-widget-missing"), nil)
	}

	w, err := h.registry.GetOrCreate(id)
	if err != nil {
		return utils.InternalServerError("Failed to mount widget", err)
	}
	session := middleware.GetSession(c)
	h.bridge.Host(id).SetSession(*session)

	return c.Render("widget", fiber.Map{
		"Title":      "Before & After",
		"Lang":       lang,
		"BodyClass":  "widget-page",
		"WidgetID":   id,
		"WidgetHTML": template.HTML(w.HTML()),
		"SocketPath": "/ws/widget/" + id,
		"ViewMode":   string(session.ViewMode),
	})
}

// ShowSettings renders GET /settings. The panel markup is rendered alone,
// parsed into a document, prefilled from the widget state and localized
// before it is placed in the layout.
func (h *PageHandler) ShowSettings(c *fiber.Ctx) error {
	lang := middleware.GetLang(c)
	id := c.Query("origCompId")
	if id == "" {
		return utils.NotFoundError(h.table.T(lang, "error-widget-missing"), nil)
	}

	w, err := h.registry.GetOrCreate(id)
	if err != nil {
		return utils.InternalServerError("Failed to mount widget", err)
	}
	session := middleware.GetSession(c)
	h.bridge.Host(id).SetSession(*session)

	trialDays := utils.TrialDaysRemaining(h.config.Host.TrialDays, session.SignDate, time.Now())

	var buf bytes.Buffer
	if err := h.views.Render(&buf, "settings", fiber.Map{
		"WidgetID":   id,
		"TrialDays":  trialDays,
		"TrialOver":  trialDays == 0,
		"UpgradeURL": h.config.Server.BaseURL + "/upgrade",
	}); err != nil {
		return utils.InternalServerError("Failed to render settings", err)
	}

	doc, err := dom.Parse(&buf)
	if err != nil {
		return utils.InternalServerError("Failed to parse settings", err)
	}
	Prefill(doc, w.State())
	tag, updated := widget.ApplyLocalization(doc, h.table, lang, trialDays)
	utils.Log.Debug("Settings panel for %s localized to %s (%d elements)", id, tag, updated)

	return c.Render("panel", fiber.Map{
		"Title":     "Before & After Settings",
		"Lang":      tag,
		"BodyClass": "settings-page",
		"Panel":     template.HTML(doc.String()),
	})
}

// Prefill writes the widget's current state into the panel's form controls,
// which carry the dataset key as their id.
func Prefill(doc *dom.Document, state models.ElementState) {
	data := map[string]string{}
	for _, kv := range state.SettingsMirror.DataAttributes() {
		data[kv.Key] = kv.Value
	}

	for key, value := range data {
		el := doc.GetElementByID(key)
		if el == nil || value == "" {
			continue
		}
		switch el.Tag {
		case "input":
			if typ, _ := el.Attr("type"); typ == "checkbox" {
				if models.ParseBoolLike(value) {
					el.SetAttr("checked", "")
				} else {
					el.RemoveAttr("checked")
				}
				continue
			}
			el.SetAttr("value", value)
		case "select":
			for _, opt := range el.Children {
				if v, _ := opt.Attr("value"); v == value {
					opt.SetAttr("selected", "")
				} else {
					opt.RemoveAttr("selected")
				}
			}
		}
	}
}
