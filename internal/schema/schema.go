// Package schema holds the HCL-specific block structures of a matrix file.
// They mirror the wire format only; the format-agnostic model lives in the
// config package.
package schema

import "github.com/hashicorp/hcl/v2"

// Product represents the single `product` block of a matrix file.
type Product struct {
	Name             string   `hcl:"name,label"`
	SourceDir        string   `hcl:"source_dir,optional"`
	PrimaryTarget    string   `hcl:"primary_target,optional"`
	ManifestTemplate string   `hcl:"manifest_template,optional"`
	CommandSurface   string   `hcl:"command_surface,optional"`
	LicenseCommand   []string `hcl:"license_command,optional"`
	FmtCommand       []string `hcl:"fmt_command,optional"`
}

// Toolchain represents a `toolchain` block: a named profile for invoking the
// external compiler.
type Toolchain struct {
	ID        string   `hcl:"id,label"`
	Command   string   `hcl:"command"`
	BuildArgs []string `hcl:"build_args"`
	CheckArgs []string `hcl:"check_args,optional"`
	LintArgs  []string `hcl:"lint_args,optional"`
	DocArgs   []string `hcl:"doc_args,optional"`
}

// Target represents a `target` block: one hardware platform. Features stays
// an undecoded expression so the loader can evaluate and type-check it with
// a useful diagnostic.
type Target struct {
	ID                string         `hcl:"id,label"`
	Profile           string         `hcl:"profile"`
	Triple            string         `hcl:"triple,optional"`
	Features          hcl.Expression `hcl:"features,optional"`
	Format            string         `hcl:"format"`
	Dir               string         `hcl:"dir,optional"`
	Output            string         `hcl:"output"`
	ProvisionerOutput string         `hcl:"provisioner_output,optional"`
	Postprocess       []string       `hcl:"postprocess,optional"`
}

// Variant represents a `variant` block: a named build configuration layered
// on every target.
type Variant struct {
	ID           string         `hcl:"id,label"`
	Features     hcl.Expression `hcl:"features,optional"`
	Kind         string         `hcl:"kind,optional"`
	OutputSuffix string         `hcl:"output_suffix,optional"`
}

// Matrix represents the top-level structure of a matrix file.
type Matrix struct {
	Products   []*Product   `hcl:"product,block"`
	Toolchains []*Toolchain `hcl:"toolchain,block"`
	Targets    []*Target    `hcl:"target,block"`
	Variants   []*Variant   `hcl:"variant,block"`
	Body       hcl.Body     `hcl:",remain"`
}
