package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultRulePipeline is the pass list `souffle-opt run` uses when no
// --config file is given: the full spec §4.6 pipeline in dependency
// order, followed by the supplemented literal-reorder pass (spec §4.8).
var DefaultRulePipeline = Pipeline{
	Passes: []string{
		"normalize",
		"unique-agg",
		"materialize-agg",
		"label",
		"adorn",
		"magic",
		"reorder",
	},
	SIPS: "naive",
}

// DefaultRAPipeline is the default raopt pass list: leveling must precede
// index creation (index creation depends on conditions already being
// hoisted to their minimal level), and existence-check conversion runs
// last since it collapses the Scan/IndexScan nodes the earlier passes
// produced.
var DefaultRAPipeline = Pipeline{
	Passes: []string{"level", "index", "existence"},
}

// Load reads a Pipeline from a YAML file at path.
func Load(path string) (Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var p Pipeline
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Pipeline{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return p, nil
}
