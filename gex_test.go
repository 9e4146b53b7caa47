package gex_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/gexlang/gex"
)

// corpusCase is one expression from a testdata archive. Exactly one of
// out, errs and fatal is set: a plain case checks the rendered value, an
// error case checks a compile error substring and a fatal case checks a
// runtime fault substring.
type corpusCase struct {
	name  string
	expr  string
	typ   string
	out   string
	errs  string
	fatal string
}

// readCorpus parses a txtar archive whose files are named case/role.
// Cases keep the order of their first appearance.
func readCorpus(t *testing.T, path string) []corpusCase {
	t.Helper()
	ar, err := txtar.ParseFile(path)
	require.NoError(t, err)

	var cases []corpusCase
	index := make(map[string]int)
	for _, f := range ar.Files {
		name, role, ok := strings.Cut(f.Name, "/")
		require.True(t, ok, "archive file %q is not case/role", f.Name)
		i, seen := index[name]
		if !seen {
			i = len(cases)
			index[name] = i
			cases = append(cases, corpusCase{name: name})
		}
		body := strings.TrimSpace(string(f.Data))
		switch role {
		case "expr":
			cases[i].expr = body
		case "type":
			cases[i].typ = body
		case "out":
			cases[i].out = body
		case "error":
			cases[i].errs = body
		case "fatal":
			cases[i].fatal = body
		default:
			t.Fatalf("archive file %q has unknown role %q", f.Name, role)
		}
	}
	return cases
}

func TestCorpus(t *testing.T) {
	archives, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, archives)

	opts := gex.Options{Reference: "GRCh37"}
	for _, path := range archives {
		group := strings.TrimSuffix(filepath.Base(path), ".txtar")
		t.Run(group, func(t *testing.T) {
			for _, c := range readCorpus(t, path) {
				t.Run(c.name, func(t *testing.T) {
					e, err := gex.Prepare(c.expr, nil, opts)
					if c.errs != "" {
						require.Error(t, err)
						require.Contains(t, err.Error(), c.errs)
						return
					}
					require.NoError(t, err)
					if c.typ != "" {
						require.Equal(t, c.typ, e.Type())
					}
					v, err := e.Run(nil)
					if c.fatal != "" {
						require.Error(t, err)
						require.True(t, gex.IsFatalError(err))
						require.Contains(t, err.Error(), c.fatal)
						return
					}
					require.NoError(t, err)
					require.Equal(t, c.out, e.Render(v))
				})
			}
		})
	}
}

func TestPrepareWithContext(t *testing.T) {
	ctx := gex.NewContext()
	gq := ctx.MustBind("gq", "Int32")
	dp := ctx.MustBind("dp", "!Int64")

	e := gex.MustPrepare("gq >= 20 && dp >= 10L", ctx, gex.Options{})
	require.Equal(t, "Boolean", e.Type())

	f := ctx.NewFrame()
	f.Set(gq, int32(30))
	f.Set(dp, int64(15))
	v, err := e.Run(f)
	require.NoError(t, err)
	require.Equal(t, true, v)

	f.Set(gq, int32(10))
	v, err = e.Run(f)
	require.NoError(t, err)
	require.Equal(t, false, v)

	f.Set(gq, nil)
	v, err = e.Run(f)
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestPrepareListSplat(t *testing.T) {
	ctx := gex.NewContext()
	info := ctx.MustBind("info", "Struct{ac: Int32, an: Int32}")

	sel, err := gex.PrepareList("va = info.*, n = info.ac", ctx, gex.Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"va.ac", "va.an", "n"}, sel.Names())
	require.Equal(t, []string{"Int32", "Int32", "Int32"}, sel.Types())

	f := ctx.NewFrame()
	f.Set(info, []any{int32(3), int32(100)})
	vals, err := sel.Evaluate(f)
	require.NoError(t, err)
	require.Equal(t, []any{int32(3), int32(100), int32(3)}, vals)
	require.Equal(t, []string{"3", "100", "3"}, sel.Render(vals))

	f.Set(info, nil)
	vals, err = sel.Evaluate(f)
	require.NoError(t, err)
	require.Equal(t, []any{nil, nil, nil}, vals)
}

func TestPrepareListRequireNames(t *testing.T) {
	_, err := gex.PrepareList("1 + 1", nil, gex.Options{RequireNames: true})
	require.Error(t, err)
	require.True(t, gex.IsBindingError(err))
	require.Contains(t, err.Error(), "left-hand side required")

	sel, err := gex.PrepareList("1 + 1", nil, gex.Options{})
	require.NoError(t, err)
	require.Equal(t, []string{"(1 + 1)"}, sel.Names())
}

func TestParseTypeRoundTrip(t *testing.T) {
	for _, src := range []string{
		"Boolean",
		"Int32",
		"Int64",
		"Float64",
		"String",
		"Call",
		"AltAllele",
		"Array[Int32]",
		"Set[Float64]",
		"Dict[String, Int32]",
		"Struct{a: Int32, b: String}",
		"!Int64",
		"Array[!String]",
		"Locus(GRCh37)",
		"Variant(GRCh38)",
		"Interval[Locus(GRCh38)]",
		"Aggregable[Int32]",
	} {
		got, err := gex.ParseType(src)
		require.NoError(t, err, src)
		require.Equal(t, src, got)
	}

	// Aliases and legacy spellings normalize to the canonical form.
	for src, want := range map[string]string{
		"Int":              "Int32",
		"Float":            "Float64",
		"Empty":            "Empty",
		"Interval(GRCh37)": "Interval[Locus(GRCh37)]",
	} {
		got, err := gex.ParseType(src)
		require.NoError(t, err, src)
		require.Equal(t, want, got)
	}

	_, err := gex.ParseType("Array[")
	require.Error(t, err)
	require.True(t, gex.IsSyntaxError(err))
}

func TestErrorKinds(t *testing.T) {
	_, err := gex.Prepare("1 +", nil, gex.Options{})
	require.Error(t, err)
	require.True(t, gex.IsSyntaxError(err))
	require.False(t, gex.IsTypeError(err))

	_, err = gex.Prepare(`1 + "a"`, nil, gex.Options{})
	require.Error(t, err)
	require.True(t, gex.IsTypeError(err))
	require.False(t, gex.IsSyntaxError(err))

	e := gex.MustPrepare("[1, 2][5]", nil, gex.Options{})
	_, err = e.Run(nil)
	require.Error(t, err)
	require.True(t, gex.IsFatalError(err))
	require.False(t, gex.IsTypeError(err))
}

func TestNoDefaultReference(t *testing.T) {
	_, err := gex.Prepare(`Locus("1:1")`, nil, gex.Options{})
	require.Error(t, err)
	require.True(t, gex.IsTypeError(err))
	require.Contains(t, err.Error(), "no default reference genome configured")
}

func TestCustomGenome(t *testing.T) {
	g := gex.NewGenomes()
	require.NoError(t, g.LoadFile(filepath.Join("testdata", "mouse_genome.yaml")))
	require.Equal(t, []string{"GRCh37", "GRCh38", "GRCm38"}, g.Names())

	opts := gex.Options{Genomes: g, Reference: "GRCm38"}
	e, err := gex.Prepare(`Locus("X:END")`, nil, opts)
	require.NoError(t, err)
	require.Equal(t, "Locus(GRCm38)", e.Type())

	v, err := e.Run(nil)
	require.NoError(t, err)
	require.Equal(t, "X:171031299", e.Render(v))
}
