package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

// BuiltinFunc runs a builtin tool. config is the tool's stored configuration
// and args is the JSON object produced by the caller.
type BuiltinFunc func(ctx context.Context, fsys afero.Fs, config map[string]any, args json.RawMessage) (any, error)

type Builtin struct {
	Name        string
	Description string
	Run         BuiltinFunc
}

// Toolbox holds the builtin tools a server offers. Builtins operate on fs.
type Toolbox struct {
	fs    afero.Fs
	tools map[string]Builtin
}

// NewToolbox returns a toolbox with read_file and list_files registered.
func NewToolbox(fsys afero.Fs) *Toolbox {
	t := &Toolbox{
		fs:    fsys,
		tools: map[string]Builtin{},
	}
	for _, b := range []Builtin{
		{Name: "read_file", Description: "Read a file and return its content with line numbers", Run: runReadFile},
		{Name: "list_files", Description: "List the entries of a directory", Run: runListFiles},
	} {
		_ = t.Add(b)
	}
	return t
}

func (t *Toolbox) Add(b Builtin) error {
	if _, ok := t.tools[b.Name]; ok {
		return fmt.Errorf("tool already exists: %s", b.Name)
	}
	t.tools[b.Name] = b
	return nil
}

func (t *Toolbox) Get(name string) (Builtin, bool) {
	b, ok := t.tools[name]
	return b, ok
}

// List returns the registered builtins ordered by name.
func (t *Toolbox) List() []Builtin {
	tools := make([]Builtin, 0, len(t.tools))
	for _, b := range t.tools {
		tools = append(tools, b)
	}
	slices.SortFunc(tools, func(a, b Builtin) int { return strings.Compare(a.Name, b.Name) })
	return tools
}

// Call runs the builtin registered under name.
func (t *Toolbox) Call(ctx context.Context, name string, config map[string]any, args json.RawMessage) (any, error) {
	b, ok := t.tools[name]
	if !ok {
		return nil, fmt.Errorf("unknown builtin tool: %s", name)
	}
	if config == nil {
		config = map[string]any{}
	}
	return b.Run(ctx, t.fs, config, args)
}
