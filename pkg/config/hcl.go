// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"color": cty.ObjectVal(map[string]cty.Value{
				"red":    cty.StringVal("red"),
				"green":  cty.StringVal("green"),
				"yellow": cty.StringVal("yellow"),
			}),
		},
	}

	// Define HCL schema
	type hclConfig struct {
		Dictionary *struct {
			Source    *string `hcl:"source,optional"`
			CachePath *string `hcl:"cache_path,optional"`
			NoCache   *bool   `hcl:"no_cache,optional"`
		} `hcl:"dictionary,block"`
		Autocorrect *struct {
			Database *string `hcl:"database,optional"`
		} `hcl:"autocorrect,block"`
		Scan *struct {
			ChunkSize      *int    `hcl:"chunk_size,optional"`
			HighlightColor *string `hcl:"highlight_color,optional"`
			PhraseSource   *string `hcl:"phrase_source,optional"`
		} `hcl:"scan,block"`
		Async *bool `hcl:"async,optional"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{}
	if d := hclCfg.Dictionary; d != nil {
		cfg.Dictionary.Source = deref(d.Source)
		cfg.Dictionary.CachePath = deref(d.CachePath)
		cfg.Dictionary.NoCache = deref(d.NoCache)
	}
	if a := hclCfg.Autocorrect; a != nil {
		cfg.Autocorrect.Database = deref(a.Database)
	}
	if s := hclCfg.Scan; s != nil {
		cfg.Scan.ChunkSize = deref(s.ChunkSize)
		cfg.Scan.HighlightColor = deref(s.HighlightColor)
		cfg.Scan.PhraseSource = deref(s.PhraseSource)
	}
	cfg.Async = deref(hclCfg.Async)

	return cfg, nil
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
