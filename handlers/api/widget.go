package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"beforeafter/middleware"
	"beforeafter/models"
	"beforeafter/utils"
	"beforeafter/widget"
)

// WidgetHandler receives the host's settings-change, save and delete events
type WidgetHandler struct {
	registry  *widget.Registry
	bridge    *Bridge
	persister widget.Persister
}

func NewWidgetHandler(registry *widget.Registry, bridge *Bridge, persister widget.Persister) *WidgetHandler {
	return &WidgetHandler{registry: registry, bridge: bridge, persister: persister}
}

// widgetFor returns the widget named in the route, bound to the request's session
func (h *WidgetHandler) widgetFor(c *fiber.Ctx) (*widget.Widget, error) {
	id := c.Params("id")
	if id == "" {
		return nil, utils.BadRequestError("Missing widget id", nil)
	}
	w, err := h.registry.GetOrCreate(id)
	if err != nil {
		return nil, utils.InternalServerError("Failed to mount widget", err).WithContext("widget", id)
	}
	h.bridge.Host(id).SetSession(*middleware.GetSession(c))
	return w, nil
}

// UpdateSettings handles POST /api/widget/:id/settings
func (h *WidgetHandler) UpdateSettings(c *fiber.Ctx) error {
	var settings models.WidgetSettings
	if err := json.Unmarshal(c.Body(), &settings); err != nil {
		return utils.BadRequestError("Invalid settings payload", err)
	}

	w, err := h.widgetFor(c)
	if err != nil {
		return err
	}

	update, err := w.UpdateSettings(settings)
	if err != nil {
		if errors.Is(err, widget.ErrElementNotFound) || errors.Is(err, widget.ErrContainerNotFound) {
			return utils.ConflictError("Widget is not mounted", err).WithContext("widget", w.ID())
		}
		return utils.InternalServerError("Failed to apply settings", err)
	}

	return c.JSON(fiber.Map{
		"widgetId": w.ID(),
		"flags":    update.Flags,
		"slider":   update.Slider,
		"patches":  update.Patches,
	})
}

// Save handles POST /api/widget/:id/save
func (h *WidgetHandler) Save(c *fiber.Ctx) error {
	w, err := h.widgetFor(c)
	if err != nil {
		return err
	}
	w.Save()
	return c.SendStatus(fiber.StatusAccepted)
}

// Delete handles DELETE /api/widget/:id. The delete request carries only
// the extension id, so it goes out even when the widget is no longer live.
func (h *WidgetHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return utils.BadRequestError("Missing widget id", nil)
	}

	if w, ok := h.registry.Get(id); ok {
		h.bridge.Host(id).SetSession(*middleware.GetSession(c))
		w.Delete()
		h.registry.Remove(id)
	} else {
		utils.Log.Debug("Deleting widget %s that is not mounted", id)
		h.persister.Persist(models.ActionDelete, models.ElementState{SliderID: id})
	}
	h.bridge.Forget(id)
	return c.SendStatus(fiber.StatusAccepted)
}

// State handles GET /api/widget/:id
func (h *WidgetHandler) State(c *fiber.Ctx) error {
	id := c.Params("id")
	w, ok := h.registry.Get(id)
	if !ok {
		return utils.NotFoundError("Widget not found", nil).WithContext("widget", id)
	}
	return c.JSON(fiber.Map{
		"widgetId": id,
		"state":    w.State(),
		"slider":   w.Slider(),
	})
}
