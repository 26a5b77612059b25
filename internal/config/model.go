package config

// Model is the unified, format-agnostic representation of the build matrix:
// the product, its toolchains, every hardware target and every build variant.
// Declaration order of targets and variants is preserved because matrix
// expansion is defined in that order.
type Model struct {
	Product    *Product
	Toolchains map[string]*Toolchain
	Targets    []*Target
	Variants   []*Variant
}

// Product describes the firmware source tree the orchestrator operates on.
type Product struct {
	Name          string
	SourceDir     string
	PrimaryTarget string

	// ManifestTemplate is the path of the manifest document containing the
	// version placeholder token.
	ManifestTemplate string

	// CommandSurface is the path of the YAML file describing the firmware
	// command set.
	CommandSurface string

	// LicenseCommand is the argv of the external license-collector program.
	// Its stdout is the JSON dependency graph.
	LicenseCommand []string

	// FmtCommand is the argv of the workspace formatting check.
	FmtCommand []string
}

// Toolchain is a named profile for invoking the external compiler.
type Toolchain struct {
	ID      string
	Command string

	// Per-verb argument lists. BuildArgs is required; the others default to
	// the conventional cargo verbs in the loader.
	BuildArgs []string
	CheckArgs []string
	LintArgs  []string
	DocArgs   []string
}

// Target is one hardware platform the firmware builds for. Immutable for the
// duration of a run.
type Target struct {
	ID      string
	Profile string // Toolchain id
	Triple  string // compilation target triple passed to the toolchain

	// Features is the target's base feature set, in declared order.
	Features []string

	// Format is the artifact file format tag: "bin" or "ihex".
	Format string

	// Dir is the working directory of this target's runner, relative to the
	// product source dir.
	Dir string

	// Output and ProvisionerOutput are the raw toolchain output paths,
	// relative to Dir. ProvisionerOutput falls back to Output when empty.
	Output            string
	ProvisionerOutput string

	// Postprocess, when set, is an argv prefix run after the build with the
	// raw output and the post-processed destination appended. Targets with a
	// signing/boot-record step use it to produce the hex-format image.
	Postprocess []string
}

// Variant is a named build configuration layered on top of every target.
type Variant struct {
	ID string

	// Features are unioned with the target's base feature set.
	Features []string

	// Kind selects the artifact name prefix: "firmware" or "provisioner".
	Kind string

	// OutputSuffix is appended to the artifact name before the extension,
	// e.g. "-test".
	OutputSuffix string
}

// ArtifactFormats are the accepted values of Target.Format.
const (
	FormatBin  = "bin"
	FormatIhex = "ihex"
)

// Artifact kinds. KindProvisioner renames the collected artifact with the
// provisioner prefix and selects the provisioner raw output.
const (
	KindFirmware    = "firmware"
	KindProvisioner = "provisioner"
)

// TargetByID returns the target with the given id, or nil.
func (m *Model) TargetByID(id string) *Target {
	for _, t := range m.Targets {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// VariantByID returns the variant with the given id, or nil.
func (m *Model) VariantByID(id string) *Variant {
	for _, v := range m.Variants {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// RawOutput returns the raw toolchain output path for the given artifact kind.
func (t *Target) RawOutput(kind string) string {
	if kind == KindProvisioner && t.ProvisionerOutput != "" {
		return t.ProvisionerOutput
	}
	return t.Output
}

// Extension returns the canonical artifact file extension for the target's
// format tag.
func (t *Target) Extension() string {
	if t.Format == FormatIhex {
		return ".ihex"
	}
	return ".bin"
}
