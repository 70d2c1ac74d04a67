package spec

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Directive is a single entry in a Spec's directive list: either a File
// directive or a Hook directive (spec.md §6).
type Directive struct {
	File *FileDirective
	Hook *HookDirective
}

// UnmarshalYAML accepts exactly one of a "file:" or "hook:" key per list
// entry, so a malformed dotfile.yaml fails fast rather than silently
// producing a zero-value directive.
func (d *Directive) UnmarshalYAML(n *yaml.Node) error {
	var shim struct {
		File *FileDirective `yaml:"file"`
		Hook *HookDirective `yaml:"hook"`
	}
	if err := n.Decode(&shim); err != nil {
		return err
	}
	if (shim.File == nil) == (shim.Hook == nil) {
		return fmt.Errorf("directive must set exactly one of \"file\" or \"hook\"")
	}
	d.File, d.Hook = shim.File, shim.Hook
	return nil
}

func (d *Directive) Validate() error {
	if d.File != nil {
		return d.File.Validate()
	}
	return d.Hook.Validate()
}

// FileKind enumerates the File directive variants from spec.md §3.
type FileKind string

const (
	FileRegular         FileKind = "regular"
	FileTemplatedHandle FileKind = "templated_handlebars"
	FileTemplatedLiquid FileKind = "templated_liquid"
	FileTree            FileKind = "tree"
	FileGeneratedEmpty  FileKind = "generated_empty"
	FileGeneratedString FileKind = "generated_string"
	FileGeneratedYAML   FileKind = "generated_yaml"
	FileGeneratedTOML   FileKind = "generated_toml"
	FileGeneratedJSON   FileKind = "generated_json"
	FileDir             FileKind = "dir"
)

// FileDirective describes one file/directory/hook-adjacent action source.
// Its fields overlay the parameters of every File variant in spec.md §3;
// only the fields relevant to Kind are meaningful, matching the Op family's
// own tagged-union shape (Design Notes §9).
type FileDirective struct {
	Kind FileKind `yaml:"kind"`

	// Regular, Templated, Tree
	Src      string `yaml:"src,omitempty"`
	Dest     string `yaml:"dest,omitempty"`
	Copy     bool   `yaml:"copy,omitempty"`
	Optional bool   `yaml:"optional,omitempty"`

	// Generated, Dir
	Content any  `yaml:"content,omitempty"`
	Parents bool `yaml:"parents,omitempty"`
}

func (f *FileDirective) Validate() error {
	switch f.Kind {
	case FileRegular, FileTemplatedHandle, FileTemplatedLiquid, FileTree:
		if f.Src == "" || f.Dest == "" {
			return fmt.Errorf("file kind %q requires src and dest", f.Kind)
		}
	case FileGeneratedEmpty, FileGeneratedString, FileGeneratedYAML, FileGeneratedTOML, FileGeneratedJSON:
		if f.Dest == "" {
			return fmt.Errorf("file kind %q requires dest", f.Kind)
		}
	case FileDir:
		if f.Dest == "" {
			return fmt.Errorf("file kind %q requires dest", f.Kind)
		}
	default:
		return fmt.Errorf("unknown file directive kind %q", f.Kind)
	}
	return nil
}

// HookKind enumerates the Hook directive variants from spec.md §6.
type HookKind string

const (
	HookCmd HookKind = "cmd"
	HookFun HookKind = "fun"
)

// HookDirective describes a Command or Function hook.
type HookDirective struct {
	Kind HookKind `yaml:"kind"`

	// Cmd
	Command string   `yaml:"command,omitempty"`
	Env     []string `yaml:"env,omitempty"`
	Dir     string   `yaml:"dir,omitempty"`

	// Fun
	FunctionName string            `yaml:"function,omitempty"`
	FunctionArgs map[string]string `yaml:"args,omitempty"`
}

func (h *HookDirective) Validate() error {
	switch h.Kind {
	case HookCmd:
		if h.Command == "" {
			return fmt.Errorf("hook kind %q requires command", h.Kind)
		}
	case HookFun:
		if h.FunctionName == "" {
			return fmt.Errorf("hook kind %q requires function", h.Kind)
		}
	default:
		return fmt.Errorf("unknown hook directive kind %q", h.Kind)
	}
	return nil
}
