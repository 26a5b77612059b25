package metadata

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// CommandArg describes one argument of a firmware command.
type CommandArg struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

// Command is one entry of the firmware command surface.
type Command struct {
	Opcode      int          `yaml:"opcode"`
	Name        string       `yaml:"name"`
	Description string       `yaml:"description"`
	Args        []CommandArg `yaml:"args"`
}

// commandSurface is the top-level structure of the command-surface YAML file.
type commandSurface struct {
	Commands []Command `yaml:"commands"`
}

// ParseCommandSurface decodes the YAML command-surface document.
func ParseCommandSurface(data []byte) ([]Command, error) {
	var surface commandSurface
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&surface); err != nil {
		return nil, fmt.Errorf("%w: decoding command surface: %v", ErrMetadata, err)
	}
	return surface.Commands, nil
}

// CommandDoc renders the command reference. Output is deterministic for a
// given command surface: commands are ordered by opcode. A duplicate opcode
// is malformed input.
func CommandDoc(product string, cmds []Command) (string, error) {
	sorted := append([]Command{}, cmds...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Opcode < sorted[j].Opcode })

	seen := make(map[int]string, len(sorted))
	var b strings.Builder
	fmt.Fprintf(&b, "# %s command reference\n", product)

	for _, cmd := range sorted {
		if prev, ok := seen[cmd.Opcode]; ok {
			return "", fmt.Errorf("%w: commands %q and %q share opcode 0x%02x",
				ErrMetadata, prev, cmd.Name, cmd.Opcode)
		}
		seen[cmd.Opcode] = cmd.Name

		fmt.Fprintf(&b, "\n## 0x%02x %s\n", cmd.Opcode, cmd.Name)
		if cmd.Description != "" {
			fmt.Fprintf(&b, "\n%s\n", cmd.Description)
		}
		if len(cmd.Args) > 0 {
			b.WriteString("\nArguments:\n")
			for _, arg := range cmd.Args {
				fmt.Fprintf(&b, "  - %s (%s): %s\n", arg.Name, arg.Type, arg.Description)
			}
		}
	}

	return b.String(), nil
}
