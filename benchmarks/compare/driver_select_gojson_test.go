//go:build gojson

package compare_test

import (
	jsonrnc "github.com/reoring/jsonrnc"
	drv "github.com/reoring/jsonrnc/source/gojson"
)

func init() { jsonrnc.SetJSONDriver(drv.Driver()) }
