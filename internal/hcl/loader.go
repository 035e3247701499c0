package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/vk/taskgridgo/internal/config"
	"github.com/vk/taskgridgo/internal/ctxlog"
	"github.com/vk/taskgridgo/internal/fsutil"
	"github.com/vk/taskgridgo/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load orchestrates the HCL loading process: discover .hcl files under the
// path, parse and decode each, evaluate the locals scope across all files,
// then translate every target block into the model.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl taskfiles found under %s", path)
	}
	logger.Debug("Discovered taskfiles.", "count", len(files))

	parser := hclparse.NewParser()
	roots := make([]*schema.Root, 0, len(files))
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse %s: %w", file, diags)
		}

		var root schema.Root
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode %s: %w", file, diags)
		}
		roots = append(roots, &root)
	}

	// Locals from every file share one scope so a taskfile split across a
	// directory behaves like a single file.
	evalCtx := baseEvalContext()
	locals := make(map[string]cty.Value)
	for i, root := range roots {
		for _, block := range root.Locals {
			if err := evalLocals(block, evalCtx, locals); err != nil {
				return nil, fmt.Errorf("in %s: %w", files[i], err)
			}
		}
	}
	if len(locals) > 0 {
		evalCtx.Variables["local"] = cty.ObjectVal(locals)
	}

	model := &config.Model{}
	for i, root := range roots {
		for _, t := range root.Targets {
			target, err := translateTarget(t, evalCtx)
			if err != nil {
				return nil, fmt.Errorf("in %s: %w", files[i], err)
			}
			model.Targets = append(model.Targets, target)
		}
	}

	logger.Debug("HCL loading complete.", "targets", len(model.Targets))
	return model, nil
}

// evalLocals evaluates every attribute of a locals block into the shared
// locals map. Locals see env but not other locals, which keeps evaluation
// single-pass and order-independent.
func evalLocals(block *schema.LocalsBlock, evalCtx *hcl.EvalContext, locals map[string]cty.Value) error {
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return fmt.Errorf("invalid locals block: %w", diags)
	}
	for name, attr := range attrs {
		if _, dup := locals[name]; dup {
			return fmt.Errorf("local %q is defined more than once", name)
		}
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return fmt.Errorf("invalid value for local %q: %w", name, diags)
		}
		locals[name] = val
	}
	return nil
}
