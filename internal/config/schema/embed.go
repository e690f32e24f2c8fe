// Package schema embeds the JSON schema for lineclass configuration files.
package schema

import "embed"

// FS holds config.schema.json.
//
//go:embed config.schema.json
var FS embed.FS
