package utils

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// DefaultLocale is used whenever the requested locale has no table
var DefaultLocale = language.English

// LocaleEntry is one UI string. Plain keys only carry Text; structured keys
// may carry Text, Tooltip or both.
type LocaleEntry struct {
	Text    string `json:"text,omitempty"`
	Tooltip string `json:"tooltip,omitempty"`
}

// LocaleTable maps a locale to its UI strings. Each locale only knows the
// keys present in its own message file; there is no per-key fallback.
type LocaleTable struct {
	bundle *i18n.Bundle
	keys   map[language.Tag][]string
}

// Locales is the global locale table
var Locales *LocaleTable

// InitI18n loads the locale table from the embedded message files
func InitI18n(fsys fs.FS) error {
	table, err := LoadLocaleTable(fsys)
	if err != nil {
		return err
	}
	Locales = table
	Log.Info("i18n system initialized with %d locales", len(table.keys))
	return nil
}

// LoadLocaleTable reads every active.<lang>.toml file found in fsys
func LoadLocaleTable(fsys fs.FS) (*LocaleTable, error) {
	bundle := i18n.NewBundle(DefaultLocale)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	names, err := fs.Glob(fsys, "active.*.toml")
	if err != nil {
		return nil, err
	}

	table := &LocaleTable{
		bundle: bundle,
		keys:   make(map[language.Tag][]string),
	}
	for _, name := range names {
		mf, err := bundle.LoadMessageFileFS(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to load locale file %s: %w", name, err)
		}
		ids := make([]string, 0, len(mf.Messages))
		for _, m := range mf.Messages {
			ids = append(ids, m.ID)
		}
		sort.Strings(ids)
		table.keys[mf.Tag] = ids
	}

	if _, ok := table.keys[DefaultLocale]; !ok {
		return nil, fmt.Errorf("no message file for default locale %s", DefaultLocale)
	}
	return table, nil
}

// Tags lists the locales that have a table
func (t *LocaleTable) Tags() []string {
	tags := make([]string, 0, len(t.keys))
	for tag := range t.keys {
		tags = append(tags, tag.String())
	}
	sort.Strings(tags)
	return tags
}

// Match picks the table for locale: exact tag, then its base language, then the default.
func (t *LocaleTable) Match(locale string) language.Tag {
	if locale == "" {
		return DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		Log.Debug("Unparseable locale %q, using %s", locale, DefaultLocale)
		return DefaultLocale
	}
	if _, ok := t.keys[tag]; ok {
		return tag
	}
	if base, conf := tag.Base(); conf != language.No {
		baseTag := language.Make(base.String())
		if _, ok := t.keys[baseTag]; ok {
			return baseTag
		}
	}
	Log.Debug("No locale table for %q, using %s", locale, DefaultLocale)
	return DefaultLocale
}

// Resolve returns the entries of the table matching locale, with
// trialDays interpolated into messages that reference {{.TrialDays}}.
func (t *LocaleTable) Resolve(locale string, trialDays int) (language.Tag, map[string]LocaleEntry) {
	tag := t.Match(locale)
	localizer := i18n.NewLocalizer(t.bundle, tag.String())
	data := map[string]interface{}{"TrialDays": trialDays}

	entries := make(map[string]LocaleEntry)
	for _, id := range t.keys[tag] {
		msg, err := localizer.Localize(&i18n.LocalizeConfig{
			MessageID:    id,
			TemplateData: data,
		})
		if err != nil {
			Log.Debug("Translation error for '%s': %v", id, err)
			continue
		}

		key, field := splitEntryID(id)
		entry := entries[key]
		if field == "tooltip" {
			entry.Tooltip = msg
		} else {
			entry.Text = msg
		}
		entries[key] = entry
	}
	return tag, entries
}

// T translates a single message ID, returning the ID when it is missing
func (t *LocaleTable) T(locale, messageID string) string {
	localizer := i18n.NewLocalizer(t.bundle, t.Match(locale).String(), DefaultLocale.String())
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		Log.Debug("Translation error for '%s': %v", messageID, err)
		return messageID
	}
	return msg
}

// splitEntryID maps "images-heading.tooltip" to ("images-heading", "tooltip")
// and a plain id to (id, "text").
func splitEntryID(id string) (string, string) {
	if i := strings.LastIndexByte(id, '.'); i > 0 {
		switch id[i+1:] {
		case "text", "tooltip":
			return id[:i], id[i+1:]
		}
	}
	return id, "text"
}
