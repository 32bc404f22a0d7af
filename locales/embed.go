// Package locales embeds the UI string tables, one active.<lang>.toml per locale.
package locales

import "embed"

//go:embed active.*.toml
var FS embed.FS
