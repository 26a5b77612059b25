package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/enrikb/nitrokey-3-firmware/internal/config"
	"github.com/enrikb/nitrokey-3-firmware/internal/schema"
)

// Default per-verb toolchain arguments, applied when a toolchain block leaves
// them out.
var (
	defaultCheckArgs = []string{"check"}
	defaultLintArgs  = []string{"clippy", "--", "--deny", "warnings"}
	defaultDocArgs   = []string{"doc", "--no-deps"}
)

// translate converts the HCL-specific matrix schema into the agnostic model.
func (l *Loader) translate(root *schema.Matrix) (*config.Model, error) {
	model := &config.Model{
		Toolchains: make(map[string]*config.Toolchain, len(root.Toolchains)),
	}

	if len(root.Products) > 1 {
		return nil, fmt.Errorf("%w: more than one product block", config.ErrInvalid)
	}
	for _, p := range root.Products {
		model.Product = l.translateProduct(p)
	}

	for _, tc := range root.Toolchains {
		if _, ok := model.Toolchains[tc.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate toolchain %q", config.ErrInvalid, tc.ID)
		}
		model.Toolchains[tc.ID] = l.translateToolchain(tc)
	}

	for _, t := range root.Targets {
		target, err := l.translateTarget(t)
		if err != nil {
			return nil, err
		}
		model.Targets = append(model.Targets, target)
	}

	for _, v := range root.Variants {
		variant, err := l.translateVariant(v)
		if err != nil {
			return nil, err
		}
		model.Variants = append(model.Variants, variant)
	}

	return model, nil
}

func (l *Loader) translateProduct(p *schema.Product) *config.Product {
	out := &config.Product{
		Name:             p.Name,
		SourceDir:        p.SourceDir,
		PrimaryTarget:    p.PrimaryTarget,
		ManifestTemplate: p.ManifestTemplate,
		CommandSurface:   p.CommandSurface,
		LicenseCommand:   p.LicenseCommand,
		FmtCommand:       p.FmtCommand,
	}
	if out.SourceDir == "" {
		out.SourceDir = "."
	}
	return out
}

func (l *Loader) translateToolchain(tc *schema.Toolchain) *config.Toolchain {
	out := &config.Toolchain{
		ID:        tc.ID,
		Command:   tc.Command,
		BuildArgs: tc.BuildArgs,
		CheckArgs: tc.CheckArgs,
		LintArgs:  tc.LintArgs,
		DocArgs:   tc.DocArgs,
	}
	if len(out.CheckArgs) == 0 {
		out.CheckArgs = defaultCheckArgs
	}
	if len(out.LintArgs) == 0 {
		out.LintArgs = defaultLintArgs
	}
	if len(out.DocArgs) == 0 {
		out.DocArgs = defaultDocArgs
	}
	return out
}

func (l *Loader) translateTarget(t *schema.Target) (*config.Target, error) {
	features, err := l.stringList(t.Features, "target", t.ID)
	if err != nil {
		return nil, err
	}
	return &config.Target{
		ID:                t.ID,
		Profile:           t.Profile,
		Triple:            t.Triple,
		Features:          features,
		Format:            t.Format,
		Dir:               t.Dir,
		Output:            t.Output,
		ProvisionerOutput: t.ProvisionerOutput,
		Postprocess:       t.Postprocess,
	}, nil
}

func (l *Loader) translateVariant(v *schema.Variant) (*config.Variant, error) {
	features, err := l.stringList(v.Features, "variant", v.ID)
	if err != nil {
		return nil, err
	}
	out := &config.Variant{
		ID:           v.ID,
		Features:     features,
		Kind:         v.Kind,
		OutputSuffix: v.OutputSuffix,
	}
	if out.Kind == "" {
		out.Kind = config.KindFirmware
	}
	return out, nil
}

// stringList evaluates a features expression into a string slice. A missing
// expression yields nil; anything that does not convert to a list of strings
// is a configuration error naming the offending block.
func (l *Loader) stringList(expr hcl.Expression, blockKind, blockID string) ([]string, error) {
	if expr == nil {
		return nil, nil
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s %q features: %s", config.ErrInvalid, blockKind, blockID, diags.Error())
	}
	if val.IsNull() {
		return nil, nil
	}

	val, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q features must be a list of strings: %v",
			config.ErrInvalid, blockKind, blockID, err)
	}

	var out []string
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		out = append(out, elem.AsString())
	}
	return out, nil
}
