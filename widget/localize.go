package widget

import (
	"beforeafter/dom"
	"beforeafter/utils"
)

// ApplyLocalization writes the strings of the table matching locale onto
// every element carrying the key as a class. Keys missing from the table
// leave their elements untouched. It returns the locale tag used and the
// number of elements updated.
func ApplyLocalization(doc *dom.Document, table *utils.LocaleTable, locale string, trialDays int) (string, int) {
	tag, entries := table.Resolve(locale, trialDays)

	updated := 0
	for key, entry := range entries {
		for _, el := range doc.GetElementsByClass(key) {
			changed := false
			if entry.Text != "" && el.Text != entry.Text {
				el.Text = entry.Text
				changed = true
			}
			if entry.Tooltip != "" {
				// A live tooltip keeps its old title until it is rebuilt.
				el.DisposeTooltip()
				el.SetData("bsTitle", entry.Tooltip)
				el.EnableTooltip()
				changed = true
			}
			if changed {
				updated++
			}
		}
	}

	utils.Log.Debug("Applied %s strings to %d elements", tag, updated)
	return tag.String(), updated
}
