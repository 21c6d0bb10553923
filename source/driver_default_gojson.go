// Package source selects go-json as the default JSON driver when imported.
package source

import (
	jsonrnc "github.com/reoring/jsonrnc"
	drvgojson "github.com/reoring/jsonrnc/source/gojson"
)

// init in a separate package to avoid an import cycle in root.
func init() { jsonrnc.SetJSONDriver(drvgojson.Driver()) }
