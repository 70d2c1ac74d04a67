// Package op implements the closed family of primitive filesystem
// operations and their inverses.
//
// Every non-undo Op variant satisfies, for any pre-state that makes it
// legal: v.Finish(ctx).Rollback().Finish(ctx) restores that pre-state on
// the paths v touches (spec.md §4.3, law L2). The family is closed and
// exhaustive by design (Design Notes §9): callers switch on Kind rather
// than relying on interface dispatch, so every switch can be checked for
// totality.
package op

import "fmt"

// Kind tags which variant an Op or Finished value holds.
type Kind int

const (
	KindLink Kind = iota
	KindCopy
	KindCreate
	KindWrite
	KindMkdir
	KindRm
	KindCommand
	KindFunction
	// KindNoOp is the inverse of ops that have no automatic inverse
	// (Command, Function). Its Finish is a no-op.
	KindNoOp
)

func (k Kind) String() string {
	switch k {
	case KindLink:
		return "link"
	case KindCopy:
		return "copy"
	case KindCreate:
		return "create"
	case KindWrite:
		return "write"
	case KindMkdir:
		return "mkdir"
	case KindRm:
		return "rm"
	case KindCommand:
		return "command"
	case KindFunction:
		return "function"
	case KindNoOp:
		return "noop"
	default:
		return "unknown"
	}
}

// FunctionHandle is an opaque reference into an external embedded scripting
// host. The core never introspects it; it's stored and handed back to a
// Dispatcher during Finish.
type FunctionHandle struct {
	Name string `yaml:"name"`
}

// Op is a single primitive filesystem operation. It's a tagged union: only
// the fields relevant to Kind are populated. Construct one with the
// matching New* constructor rather than a struct literal, so callers can't
// forget to set Kind.
//
// Op is yaml-tagged so the journal can serialize it directly as a Record's
// payload (spec.md §6's "length-prefixed or line-delimited serialized
// values", pinned to a yaml.v3 multi-document stream by SPEC_FULL.md).
type Op struct {
	Kind Kind `yaml:"kind"`

	// Link, Copy
	Src  string `yaml:"src,omitempty"`
	Dest string `yaml:"dest,omitempty"`
	// Copy
	Dir bool `yaml:"dir,omitempty"`

	// Create, Mkdir
	Path string `yaml:"path,omitempty"`

	// Write
	WritePath  string `yaml:"write_path,omitempty"`
	WriteBytes []byte `yaml:"write_bytes,omitempty"`

	// Rm
	RmPath string `yaml:"rm_path,omitempty"`
	RmDir  bool   `yaml:"rm_dir,omitempty"`

	// Command
	CommandLine string   `yaml:"command_line,omitempty"`
	CommandEnv  []string `yaml:"command_env,omitempty"`
	CommandDir  string   `yaml:"command_dir,omitempty"`

	// Function
	Function     FunctionHandle    `yaml:"function,omitempty"`
	FunctionArgs map[string]string `yaml:"function_args,omitempty"`
}

func NewLink(src, dest string) Op { return Op{Kind: KindLink, Src: src, Dest: dest} }

func NewCopy(src, dest string, dir bool) Op {
	return Op{Kind: KindCopy, Src: src, Dest: dest, Dir: dir}
}

func NewCreate(path string) Op { return Op{Kind: KindCreate, Path: path} }

func NewWrite(path string, bytes []byte) Op {
	return Op{Kind: KindWrite, WritePath: path, WriteBytes: bytes}
}

func NewMkdir(path string) Op { return Op{Kind: KindMkdir, Path: path} }

func NewRm(path string, dir bool) Op { return Op{Kind: KindRm, RmPath: path, RmDir: dir} }

func NewCommand(line string, env []string, dir string) Op {
	return Op{Kind: KindCommand, CommandLine: line, CommandEnv: env, CommandDir: dir}
}

func NewFunction(h FunctionHandle, args map[string]string) Op {
	return Op{Kind: KindFunction, Function: h, FunctionArgs: args}
}

func noOp() Op { return Op{Kind: KindNoOp} }

// path returns the single filesystem path this op most directly concerns,
// for logging and error messages. Ops that touch two paths (Link, Copy)
// return Dest.
func (o Op) path() string {
	switch o.Kind {
	case KindLink, KindCopy:
		return o.Dest
	case KindCreate, KindMkdir:
		return o.Path
	case KindWrite:
		return o.WritePath
	case KindRm:
		return o.RmPath
	case KindCommand:
		return o.CommandDir
	default:
		return ""
	}
}

// Finished is the result of successfully finishing an Op. It carries
// whatever bookkeeping its Rollback needs to construct an accurate inverse.
type Finished struct {
	kind Kind

	// Link
	linkDest string

	// Copy
	copyDest string
	copyDir  bool

	// Create
	createPath string

	// Write
	writePath    string
	writeExisted bool
	writeBackup  string // path under FinishCtx.BackupDir, valid iff writeExisted

	// Mkdir
	mkdirPath string

	// Rm
	rmPath          string
	rmDir           bool
	rmBackupPath    string // where Finish staged the removed content/tree
	rmWasSymlink    bool
	rmSymlinkTarget string

	// Command/Function carry nothing; their Rollback is always a NoOp.
}

// Rollback returns the inverse Op of a Finished result. Per spec.md §4.3
// (L2), executing the original Op then its Rollback restores the
// pre-operation state on the paths the original Op touched.
func (f Finished) Rollback() Op {
	switch f.kind {
	case KindLink:
		return NewRm(f.linkDest, false)
	case KindCopy:
		return NewRm(f.copyDest, f.copyDir)
	case KindCreate:
		return NewRm(f.createPath, false)
	case KindWrite:
		if !f.writeExisted {
			return NewRm(f.writePath, false)
		}
		// Restoring previous bytes is just copying the staged backup file
		// back over the live path; Copy's Finish reads the backup's
		// current bytes at rollback time rather than trusting a stale
		// in-memory copy.
		return NewCopy(f.writeBackup, f.writePath, false)
	case KindMkdir:
		return NewRm(f.mkdirPath, true)
	case KindRm:
		if f.rmWasSymlink {
			return NewLink(f.rmSymlinkTarget, f.rmPath)
		}
		if f.rmBackupPath == "" {
			// Nothing was backed up, which happens only when the path
			// turned out not to exist; restoring "nothing" is a no-op.
			return noOp()
		}
		return NewCopy(f.rmBackupPath, f.rmPath, f.rmDir)
	case KindCommand, KindFunction:
		return noOp()
	case KindNoOp:
		return noOp()
	default:
		return noOp()
	}
}

// OpError wraps a failure that occurred while finishing an Op.
type OpError struct {
	Kind Kind
	Path string
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }
