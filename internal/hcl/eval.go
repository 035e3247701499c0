package hcl

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// baseEvalContext builds the root evaluation scope: the process environment
// exposed as the `env` object. The `local` object is layered in by the
// loader once locals blocks have been evaluated.
func baseEvalContext() *hcl.EvalContext {
	envVars := make(map[string]cty.Value)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		envVars[k] = cty.StringVal(v)
	}

	vars := map[string]cty.Value{}
	if len(envVars) > 0 {
		vars["env"] = cty.ObjectVal(envVars)
	} else {
		vars["env"] = cty.EmptyObjectVal
	}

	return &hcl.EvalContext{Variables: vars}
}

// evalString evaluates an expression to a single string. A nil expression
// (absent optional attribute) yields "".
func evalString(expr hcl.Expression, evalCtx *hcl.EvalContext, attr string) (string, error) {
	if expr == nil {
		return "", nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return "", fmt.Errorf("invalid %s: %w", attr, diags)
	}
	if val.IsNull() {
		return "", nil
	}
	converted, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("invalid %s: %w", attr, err)
	}
	return converted.AsString(), nil
}

// evalStringSlice evaluates an expression to a list of strings. A nil
// expression yields nil.
func evalStringSlice(expr hcl.Expression, evalCtx *hcl.EvalContext, attr string) ([]string, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid %s: %w", attr, diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	converted, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", attr, err)
	}

	var out []string
	for it := converted.ElementIterator(); it.Next(); {
		_, element := it.Element()
		if element.IsNull() {
			return nil, fmt.Errorf("invalid %s: null element", attr)
		}
		out = append(out, element.AsString())
	}
	return out, nil
}

// evalStringMap evaluates an expression to a string-to-string map. A nil
// expression yields nil.
func evalStringMap(expr hcl.Expression, evalCtx *hcl.EvalContext, attr string) (map[string]string, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid %s: %w", attr, diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	converted, err := convert.Convert(val, cty.Map(cty.String))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", attr, err)
	}

	out := make(map[string]string)
	for it := converted.ElementIterator(); it.Next(); {
		k, v := it.Element()
		if v.IsNull() {
			return nil, fmt.Errorf("invalid %s: null value for key %q", attr, k.AsString())
		}
		out[k.AsString()] = v.AsString()
	}
	return out, nil
}
