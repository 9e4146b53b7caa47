package eval

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gexlang/gex/internal/genome"
	"github.com/gexlang/gex/internal/types"
)

// Render formats a runtime value the way the language prints it.
// Missing renders as NA at any depth.
func Render(t types.Type, v any) string {
	if v == nil {
		return "NA"
	}
	switch t := types.Optional(t).(type) {
	case types.Boolean:
		return strconv.FormatBool(v.(bool))
	case types.Int32:
		return strconv.FormatInt(int64(v.(int32)), 10)
	case types.Int64:
		return strconv.FormatInt(v.(int64), 10)
	case types.Float32:
		return formatFloat(float64(v.(float32)), 32)
	case types.Float64:
		return formatFloat(v.(float64), 64)
	case types.String:
		return v.(string)
	case types.Call:
		return v.(genome.Call).String()
	case types.AltAllele:
		return v.(genome.AltAllele).String()
	case types.Locus:
		return v.(genome.Locus).String()
	case types.Variant:
		return v.(genome.Variant).String()
	case types.Array:
		return renderSeq(t.Elem, v.([]any))
	case types.Set:
		return renderSeq(t.Elem, v.([]any))
	case types.Dict:
		m := v.(map[any]any)
		keys := types.SortedKeys(t.Key, m)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = Render(t.Key, k) + ": " + Render(t.Value, m[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case types.Interval:
		iv := v.(genome.Interval)
		return Render(t.Point, iv.Start) + "-" + Render(t.Point, iv.End)
	case types.Struct:
		fields := v.([]any)
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.Name + ": " + Render(f.Type, fields[i])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return fmt.Sprintf("%v", v)
}

// formatFloat prints the shortest round-trip form, appending .0 to
// values that would otherwise read as integers.
func formatFloat(v float64, bits int) string {
	s := strconv.FormatFloat(v, 'g', -1, bits)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return s
}

func renderSeq(elem types.Type, vs []any) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = Render(elem, v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
