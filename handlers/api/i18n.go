package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"beforeafter/middleware"
	"beforeafter/utils"
)

// I18nHandler serves the locale table to the settings panel script
type I18nHandler struct {
	table     *utils.LocaleTable
	trialDays int
}

func NewI18nHandler(table *utils.LocaleTable, trialDays int) *I18nHandler {
	return &I18nHandler{table: table, trialDays: trialDays}
}

// GetTranslations returns the entries of the table matching :lang, with the
// trial countdown computed from the session's sign date. Unknown locales get
// the default table.
func (h *I18nHandler) GetTranslations(c *fiber.Ctx) error {
	remaining := utils.TrialDaysRemaining(h.trialDays, middleware.GetSession(c).SignDate, time.Now())
	tag, entries := h.table.Resolve(c.Params("lang"), remaining)
	return c.JSON(fiber.Map{
		"locale":    tag.String(),
		"trialDays": remaining,
		"entries":   entries,
	})
}
