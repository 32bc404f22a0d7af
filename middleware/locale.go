package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"beforeafter/utils"
)

// LocalsLang is the fiber.Ctx Locals key holding the resolved locale tag
const LocalsLang = "lang"

// LocaleMiddleware picks the locale for the request: the host session's
// locale, then ?lang, then the lang cookie, then Accept-Language. Anything
// without a table resolves to the default locale.
func LocaleMiddleware(table *utils.LocaleTable) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lang := GetSession(c).Locale

		if lang == "" {
			lang = c.Query("lang")
		}
		if lang == "" {
			lang = c.Cookies("lang")
		}
		if lang == "" {
			lang = firstAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage))
		}

		tag := table.Match(lang).String()
		c.Locals(LocalsLang, tag)

		utils.Log.Debug("Locale detected: %s (requested %q) for path: %s", tag, lang, c.Path())
		return c.Next()
	}
}

// GetLang returns the locale chosen by LocaleMiddleware
func GetLang(c *fiber.Ctx) string {
	if lang, ok := c.Locals(LocalsLang).(string); ok && lang != "" {
		return lang
	}
	return utils.DefaultLocale.String()
}

func firstAcceptLanguage(header string) string {
	first, _, _ := strings.Cut(header, ",")
	first, _, _ = strings.Cut(first, ";")
	return strings.TrimSpace(first)
}
