package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/enrikb/nitrokey-3-firmware/internal/toolchain"
)

// Dependency is one entry of the transitive dependency graph, as emitted by
// the external license-collector program.
type Dependency struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	License string `json:"license"`
	Authors string `json:"authors,omitempty"`
}

// CollectDependencies runs the external license collector and parses its
// JSON output.
func CollectDependencies(ctx context.Context, invoker toolchain.Invoker, argv []string, dir string) ([]Dependency, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: no license collector configured", ErrMetadata)
	}

	inv := toolchain.Invocation{Command: argv[0], Args: argv[1:], Dir: dir}
	result, err := invoker.Run(ctx, inv)
	if err != nil {
		diag := ""
		if result != nil {
			diag = strings.TrimSpace(result.Stderr)
		}
		return nil, fmt.Errorf("%w: license collector: %v: %s", ErrMetadata, err, diag)
	}
	return ParseDependencies([]byte(result.Stdout))
}

// ParseDependencies decodes the collector's JSON dependency array.
func ParseDependencies(data []byte) ([]Dependency, error) {
	var deps []Dependency
	if err := json.Unmarshal(data, &deps); err != nil {
		return nil, fmt.Errorf("%w: decoding dependency graph: %v", ErrMetadata, err)
	}
	return deps, nil
}

// LicenseReport renders the dependency graph as a text report with a fixed
// header naming the product. A dependency without a declared license is a
// fatal error for this generator; an empty graph yields a well-formed report
// with zero rows.
func LicenseReport(product string, deps []Dependency) (string, error) {
	var b strings.Builder
	header := fmt.Sprintf("Third-party licenses for %s", product)
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("=", len(header)) + "\n\n")

	sorted := append([]Dependency{}, deps...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].Version < sorted[j].Version
	})

	for _, dep := range sorted {
		if strings.TrimSpace(dep.License) == "" {
			return "", fmt.Errorf("%w: dependency %s %s has no declared license",
				ErrMetadata, dep.Name, dep.Version)
		}
		fmt.Fprintf(&b, "%s %s: %s", dep.Name, dep.Version, dep.License)
		if dep.Authors != "" {
			fmt.Fprintf(&b, " (%s)", dep.Authors)
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}
