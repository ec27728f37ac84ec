package mst

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CloudDataLab/souffle/ir/rule"
	"github.com/CloudDataLab/souffle/program"
	"github.com/CloudDataLab/souffle/testutil"
)

func TestAdornmentRecoversBaseAndPatternFromAnAdornedName(t *testing.T) {
	base, pattern, ok := Adornment("path^bf")
	require.True(t, ok)
	require.Equal(t, "path", base)
	require.Equal(t, "bf", pattern)

	_, _, ok = Adornment("path")
	require.False(t, ok, "an unadorned name carries no '^' marker")
}

func TestMagicSetTransformerEmitsAMagicRuleForABoundBodyAtom(t *testing.T) {
	p := testutil.NewRuleProgram(nil)
	pRef := p.Relations.Declare(program.Relation{Name: "p^bf", Arity: 2})
	qRef := p.Relations.Declare(program.Relation{Name: "q^bf", Arity: 2})
	testutil.Clause(p,
		&rule.Atom{Relation: pRef, Args: []rule.Argument{testutil.Var("x"), testutil.Var("y")}},
		&rule.Atom{Relation: qRef, Args: []rule.Argument{testutil.Var("x"), testutil.Var("y")}})

	changed := MagicSetTransformer(p, nil)
	require.True(t, changed)

	magicQRef, ok := p.Relations.Resolve("magic_q^bf")
	require.True(t, ok, "a magic relation must be declared for the bound body atom")
	magicQRel := p.Relations.Lookup(magicQRef)
	require.Equal(t, 1, magicQRel.Arity, "the magic relation's arity matches the bound-position count")

	var magicHeadAtomSeen, magicRuleSeen bool
	for _, c := range p.Clauses {
		headRel := p.Relations.Lookup(c.Head.Relation)
		if headRel.Name == "p^bf" {
			require.GreaterOrEqual(t, len(c.Body), 2)
			if atom, ok := c.Body[0].(*rule.Atom); ok {
				rel := p.Relations.Lookup(atom.Relation)
				magicHeadAtomSeen = rel.Name == "magic_p^bf"
			}
		}
		if headRel.Name == "magic_q^bf" {
			magicRuleSeen = true
		}
	}
	require.True(t, magicHeadAtomSeen, "the rewritten rule must guard its body on its own magic atom")
	require.True(t, magicRuleSeen, "a magic rule deriving magic_q^bf must be emitted")
}

func TestMagicSetTransformerSeedsABoundQueryWithItsGroundArguments(t *testing.T) {
	p := testutil.NewRuleProgram(nil)
	pathRef := p.Relations.Declare(program.Relation{Name: "path", Arity: 2})
	p.Relations.Declare(program.Relation{Name: "path^bf", Arity: 2})

	seeds := []QuerySeed{{Relation: pathRef, Pattern: "bf", Args: []rule.Argument{testutil.Val(int64(7))}}}
	changed := MagicSetTransformer(p, seeds)
	require.True(t, changed)

	magicRef, ok := p.Relations.Resolve("magic_path^bf")
	require.True(t, ok)

	var seeded *rule.Clause
	for _, c := range p.Clauses {
		if c.Head.Relation == magicRef {
			seeded = c
		}
	}
	require.NotNil(t, seeded, "a magic seed fact must be emitted for the bound query")
	require.Nil(t, seeded.Body, "the seed is a ground fact, not a derived rule")
	require.Len(t, seeded.Head.Args, 1)
	require.Equal(t, rule.Constant{Value: int64(7)}, seeded.Head.Args[0], "the seed's bound position must carry the query's actual argument value, not a fresh unbound variable")
}

func TestMagicSetTransformerLeavesUnadornedClausesUntouched(t *testing.T) {
	p := testutil.NewRuleProgram(map[string]int{"fact": 1})
	testutil.Clause(p, testutil.RuleAtom(p, "fact", testutil.Val(int64(1))))

	changed := MagicSetTransformer(p, nil)
	require.False(t, changed)
	require.Len(t, p.Clauses, 1)
}

func TestDeclareMagicIsIdempotent(t *testing.T) {
	p := testutil.NewRuleProgram(nil)
	p.Relations.Declare(program.Relation{Name: "q^bf", Arity: 2})

	first := declareMagic(p, "q^bf")
	second := declareMagic(p, "q^bf")
	require.Equal(t, first, second)
}
