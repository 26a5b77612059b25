package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/enrikb/nitrokey-3-firmware/internal/config"
	"github.com/enrikb/nitrokey-3-firmware/internal/ctxlog"
	"github.com/enrikb/nitrokey-3-firmware/internal/fsutil"
	"github.com/enrikb/nitrokey-3-firmware/internal/schema"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL matrix loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the matrix definition at path, which may be a single .hcl file
// or a directory of .hcl files, merges every discovered block into one model
// and validates it.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := l.matrixFiles(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered matrix files.", "count", len(files))

	root := &schema.Matrix{}
	parser := hclparse.NewParser()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("%w: parsing %s: %s", config.ErrInvalid, file, diags.Error())
		}

		var part schema.Matrix
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &part); diags.HasErrors() {
			return nil, fmt.Errorf("%w: decoding %s: %s", config.ErrInvalid, file, diags.Error())
		}

		root.Products = append(root.Products, part.Products...)
		root.Toolchains = append(root.Toolchains, part.Toolchains...)
		root.Targets = append(root.Targets, part.Targets...)
		root.Variants = append(root.Variants, part.Variants...)
	}

	model, err := l.translate(root)
	if err != nil {
		return nil, err
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Matrix loaded.",
		"targets", len(model.Targets), "variants", len(model.Variants))

	return model, nil
}

// matrixFiles resolves path to the ordered list of .hcl files to parse.
func (l *Loader) matrixFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: matrix path %s: %v", config.ErrInvalid, path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	files, err := fsutil.FindFilesByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("%w: scanning %s: %v", config.ErrInvalid, path, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no .hcl files under %s", config.ErrInvalid, path)
	}
	return files, nil
}
