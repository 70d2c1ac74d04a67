// Package action converts a package's directive list into the closed
// Action sum type spec.md §3 describes, with all paths normalized to
// absolute form before the resolver ever sees them.
package action

import (
	"fmt"

	"github.com/mirryi/dotctl/internal/op"
)

// Kind tags which Action variant a value holds.
type Kind int

const (
	KindLink Kind = iota
	KindWrite
	KindMkdir
	KindTree
	KindHandlebars
	KindLiquid
	KindYAML
	KindTOML
	KindJSON
	KindCommand
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindLink:
		return "link"
	case KindWrite:
		return "write"
	case KindMkdir:
		return "mkdir"
	case KindTree:
		return "tree"
	case KindHandlebars:
		return "handlebars"
	case KindLiquid:
		return "liquid"
	case KindYAML:
		return "yaml"
	case KindTOML:
		return "toml"
	case KindJSON:
		return "json"
	case KindCommand:
		return "command"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Action is the tagged union spec.md §3 defines. Only the fields relevant
// to Kind are meaningful, matching the shape of op.Op.
type Action struct {
	Kind Kind

	// Link, Tree
	Src      string
	Dest     string
	Copy     bool
	Optional bool

	// Write, Generated{Empty,String}
	Contents []byte

	// Handlebars, Liquid — rendered by an external template engine before
	// resolution falls back to the Write op path.
	Vars map[string]string

	// Generated{Yaml,Toml,Json} — marshaled by the executor before falling
	// back to the Write op path.
	Data any

	// Mkdir
	Parents bool

	// Command
	CommandLine string
	CommandEnv  []string
	CommandDir  string

	// Function
	Function     op.FunctionHandle
	FunctionArgs map[string]string
}

func newLink(src, dest string, cp, optional bool) Action {
	return Action{Kind: KindLink, Src: src, Dest: dest, Copy: cp, Optional: optional}
}

func newTree(src, dest string, cp bool) Action {
	return Action{Kind: KindTree, Src: src, Dest: dest, Copy: cp}
}

func newWrite(dest string, contents []byte) Action {
	return Action{Kind: KindWrite, Dest: dest, Contents: contents}
}

func newMkdir(dest string, parents bool) Action {
	return Action{Kind: KindMkdir, Dest: dest, Parents: parents}
}

func newTemplate(kind Kind, src, dest string, vars map[string]string) Action {
	return Action{Kind: kind, Src: src, Dest: dest, Vars: vars}
}

func newGenerated(kind Kind, dest string, data any) Action {
	return Action{Kind: kind, Dest: dest, Data: data}
}

func newCommand(line string, env []string, dir string) Action {
	return Action{Kind: KindCommand, CommandLine: line, CommandEnv: env, CommandDir: dir}
}

func newFunction(handle op.FunctionHandle, args map[string]string) Action {
	return Action{Kind: KindFunction, Function: handle, FunctionArgs: args}
}

// String renders a one-line human description, used by internal/ui status
// lines and test failure messages alike.
func (a Action) String() string {
	switch a.Kind {
	case KindLink, KindTree:
		return fmt.Sprintf("%s %s -> %s", a.Kind, a.Src, a.Dest)
	case KindMkdir, KindWrite, KindYAML, KindTOML, KindJSON:
		return fmt.Sprintf("%s %s", a.Kind, a.Dest)
	case KindHandlebars, KindLiquid:
		return fmt.Sprintf("%s %s -> %s", a.Kind, a.Src, a.Dest)
	case KindCommand:
		return fmt.Sprintf("command %q", a.CommandLine)
	case KindFunction:
		return fmt.Sprintf("function %s", a.Function.Name)
	default:
		return a.Kind.String()
	}
}
