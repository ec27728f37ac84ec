// Package config implements the declarative pass-pipeline driver: which
// passes run, in what order, and how many fixed-point iterations are
// allowed before giving up. The core packages (raopt, mst, passes) only
// expose individual `apply(*Program) bool` passes; nothing in them knows
// about scheduling, repetition, or convergence. config is the one place
// that knowledge lives, mirroring the teacher's bounded-retry convention
// in planner/cache.go (a fixed MaxAttempts before surfacing a sentinel
// error rather than looping forever).
package config

import (
	"errors"
	"fmt"

	"github.com/CloudDataLab/souffle/ir/ra"
	"github.com/CloudDataLab/souffle/ir/rule"
	"github.com/CloudDataLab/souffle/mst"
	"github.com/CloudDataLab/souffle/passes"
	"github.com/CloudDataLab/souffle/raopt"
)

// DefaultMaxIterations bounds how many times RunRule and RunRA repeat a pipeline's full
// pass list looking for a fixed point, matching the teacher's default
// retry ceiling (planner/cache.go's cacheRetryLimit).
const DefaultMaxIterations = 32

// ErrFixedPointNotReached is returned when a pipeline still reports
// changes after MaxIterations repetitions. This is an operator
// configuration problem (a bad pass list, or two passes fighting each
// other), not a core-IR invariant violation, so it is a plain sentinel
// error rather than a program.Invariant panic.
var ErrFixedPointNotReached = errors.New("config: pipeline did not reach a fixed point within MaxIterations")

// Pipeline is a declarative, YAML-loadable description of a pass run: the
// named passes to apply, in order, repeated until none of them reports a
// change or MaxIterations is reached.
type Pipeline struct {
	Passes        []string `yaml:"passes"`
	MaxIterations int      `yaml:"max_iterations"`
	SIPS          string   `yaml:"sips"`
}

func (p Pipeline) maxIterations() int {
	if p.MaxIterations > 0 {
		return p.MaxIterations
	}
	return DefaultMaxIterations
}

// RulePassSet is the set of named passes RunRule can schedule over a
// rule.Program.
type RulePassSet struct {
	Registry   *mst.Registry
	Statistics *mst.Statistics
	Seeds      []mst.QuerySeed
}

// NewRulePassSet builds a RulePassSet with the default SIPS registry, a
// fresh statistics table, and the program's declared queries as seeds
// (spec §4.6.3's default worklist).
func NewRulePassSet(p *rule.Program) *RulePassSet {
	return &RulePassSet{
		Registry:   mst.NewRegistry(),
		Statistics: mst.NewStatistics(),
		Seeds:      mst.DefaultSeeds(p),
	}
}

// namedRulePass resolves a pipeline pass name to a callable over
// rule.Program, per spec §4.10.
func (rp *RulePassSet) namedRulePass(name, sips string) (func(*rule.Program) bool, error) {
	switch name {
	case "normalize":
		return mst.NormaliseDatabase, nil
	case "label":
		return mst.LabelDatabase, nil
	case "adorn":
		return func(p *rule.Program) bool {
			return mst.AdornDatabase(p, rp.Seeds, sips, rp.Registry, rp.Statistics)
		}, nil
	case "magic":
		return func(p *rule.Program) bool {
			return mst.MagicSetTransformer(p, rp.Seeds)
		}, nil
	case "unique-agg":
		return passes.UniqueAggregationVariables, nil
	case "materialize-agg":
		return passes.MaterializeAggregationQueries, nil
	case "reorder":
		return func(p *rule.Program) bool {
			return passes.ReorderLiterals(p, sips, rp.Registry, rp.Statistics)
		}, nil
	default:
		return nil, fmt.Errorf("config: unknown rule pass %q", name)
	}
}

// RunRule runs pipeline's named rule-IR passes against p to a fixed
// point.
func RunRule(pipeline Pipeline, p *rule.Program) (int, error) {
	rp := NewRulePassSet(p)
	sips := pipeline.SIPS
	if sips == "" {
		sips = "naive"
	}

	resolved := make([]func(*rule.Program) bool, len(pipeline.Passes))
	for i, name := range pipeline.Passes {
		fn, err := rp.namedRulePass(name, sips)
		if err != nil {
			return 0, err
		}
		resolved[i] = fn
	}

	for iter := 1; iter <= pipeline.maxIterations(); iter++ {
		changed := false
		for _, fn := range resolved {
			if fn(p) {
				changed = true
			}
		}
		if !changed {
			return iter, nil
		}
	}
	return pipeline.maxIterations(), ErrFixedPointNotReached
}

// namedRAPass resolves a pipeline pass name to a callable over ra.Program,
// per spec §4.10 applied to the raopt stage.
func namedRAPass(name string) (func(*ra.Program) bool, error) {
	switch name {
	case "level":
		return raopt.LevelConditions, nil
	case "index":
		return raopt.CreateIndices, nil
	case "existence":
		return raopt.ConvertExistenceChecks, nil
	default:
		return nil, fmt.Errorf("config: unknown RA pass %q", name)
	}
}

// RunRA runs pipeline's named RA-IR passes against p to a fixed point.
func RunRA(pipeline Pipeline, p *ra.Program) (int, error) {
	resolved := make([]func(*ra.Program) bool, len(pipeline.Passes))
	for i, name := range pipeline.Passes {
		fn, err := namedRAPass(name)
		if err != nil {
			return 0, err
		}
		resolved[i] = fn
	}

	for iter := 1; iter <= pipeline.maxIterations(); iter++ {
		changed := false
		for _, fn := range resolved {
			if fn(p) {
				changed = true
			}
		}
		if !changed {
			return iter, nil
		}
	}
	return pipeline.maxIterations(), ErrFixedPointNotReached
}
