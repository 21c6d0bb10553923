package main

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	jsonrnc "github.com/reoring/jsonrnc"
	yamlsrc "github.com/reoring/jsonrnc/source/yaml"
)

// configSchema describes the YAML accepted by -config.
const configSchema = `
start = {
  stats?: boolean
  workers?: integer @(minimum = 1, maximum = 256)
  format?: /auto|array|stream|yaml/
  lang?: /en|ja/
  failFast?: boolean
  maxDepth?: integer @(minimum = 0)
  maxBytes?: integer @(minimum = 0)
  duplicateKeys?: /ignore|warn|error/
  driver?: /go-json|encoding\/json/
  json?: boolean
  verbose?: boolean
}
`

var configGrammar = jsonrnc.MustCompile(configSchema)

// fileConfig mirrors configSchema. Nil fields were not set in the file.
type fileConfig struct {
	Stats         *bool   `yaml:"stats"`
	Workers       *int    `yaml:"workers"`
	Format        *string `yaml:"format"`
	Lang          *string `yaml:"lang"`
	FailFast      *bool   `yaml:"failFast"`
	MaxDepth      *int    `yaml:"maxDepth"`
	MaxBytes      *int64  `yaml:"maxBytes"`
	DuplicateKeys *string `yaml:"duplicateKeys"`
	Driver        *string `yaml:"driver"`
	JSON          *bool   `yaml:"json"`
	Verbose       *bool   `yaml:"verbose"`
}

// loadConfig reads path, checks it against configSchema and decodes it.
func loadConfig(ctx context.Context, path string) (fileConfig, error) {
	var cfg fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if _, err := jsonrnc.ValidateFrom(ctx, configGrammar, yamlsrc.NewBytes(data),
		jsonrnc.ReadOpt{Strictness: jsonrnc.Strictness{OnDuplicateKey: jsonrnc.Error}}); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// apply copies config values onto opts for every flag not given explicitly.
func (c fileConfig) apply(o *options, explicit map[string]bool) {
	setBool := func(name string, dst *bool, v *bool) {
		if v != nil && !explicit[name] {
			*dst = *v
		}
	}
	setString := func(name string, dst *string, v *string) {
		if v != nil && !explicit[name] {
			*dst = *v
		}
	}
	setBool("stats", &o.stats, c.Stats)
	setBool("fail-fast", &o.failFast, c.FailFast)
	setBool("json", &o.json, c.JSON)
	setBool("v", &o.verbose, c.Verbose)
	setString("format", &o.format, c.Format)
	setString("lang", &o.lang, c.Lang)
	setString("dup", &o.dup, c.DuplicateKeys)
	setString("driver", &o.driver, c.Driver)
	if c.Workers != nil && !explicit["workers"] {
		o.workers = *c.Workers
	}
	if c.MaxDepth != nil && !explicit["max-depth"] {
		o.maxDepth = *c.MaxDepth
	}
	if c.MaxBytes != nil && !explicit["max-bytes"] {
		o.maxBytes = *c.MaxBytes
	}
}
