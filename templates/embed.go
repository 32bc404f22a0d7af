// Package templates embeds the page templates
package templates

import "embed"

//go:embed *.html layouts/*.html
var FS embed.FS
