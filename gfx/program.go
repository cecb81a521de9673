package gfx

import (
	"fmt"
	"sort"
	"strings"
)

// ProgramOptions toggles shader features when looking a program up in the library.
type ProgramOptions struct {
	VertexColors bool
	DiffuseMap   bool
}

func (o ProgramOptions) key() string {
	var flags []string
	if o.VertexColors {
		flags = append(flags, "vertexColors")
	}
	if o.DiffuseMap {
		flags = append(flags, "diffuseMap")
	}
	sort.Strings(flags)
	return strings.Join(flags, ",")
}

type Program struct {
	Name    string
	Options ProgramOptions

	// Handle is the backend object (pipeline, shader module, ...).
	Handle any
}

func (p *Program) Key() string {
	return p.Name + "|" + p.Options.key()
}

// ProgramCompiler builds the backend handle for a named program.
type ProgramCompiler func(name string, opts ProgramOptions) (any, error)

// ProgramLibrary caches programs by name and options.
type ProgramLibrary struct {
	compile  ProgramCompiler
	programs map[string]*Program
}

func NewProgramLibrary(compile ProgramCompiler) *ProgramLibrary {
	return &ProgramLibrary{
		compile:  compile,
		programs: make(map[string]*Program),
	}
}

func (lib *ProgramLibrary) GetProgram(name string, opts ProgramOptions) (*Program, error) {
	p := &Program{Name: name, Options: opts}
	if cached, ok := lib.programs[p.Key()]; ok {
		return cached, nil
	}
	if lib.compile != nil {
		handle, err := lib.compile(name, opts)
		if err != nil {
			return nil, fmt.Errorf("compile program %q: %w", name, err)
		}
		p.Handle = handle
	}
	lib.programs[p.Key()] = p
	return p, nil
}

func (lib *ProgramLibrary) Len() int {
	return len(lib.programs)
}
