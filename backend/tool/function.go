package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/grafana/sobek"
)

const defaultEntrypoint = "handler"

// Function is the compiled source of a "function" tool. The source defines a
// JavaScript function that receives the input string and returns a string or
// an object.
type Function struct {
	program    *sobek.Program
	entrypoint string
}

func CompileFunction(config map[string]any) (*Function, error) {
	source, _ := config[KeySource].(string)
	if source == "" {
		return nil, fmt.Errorf("%w: %s is required", ErrInvalidConfig, KeySource)
	}

	entrypoint := defaultEntrypoint
	if raw, ok := config[KeyEntrypoint]; ok {
		name, ok := raw.(string)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %s must be a function name", ErrInvalidConfig, KeyEntrypoint)
		}
		entrypoint = name
	}

	program, err := sobek.Compile("tool.js", source, true)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return &Function{program: program, entrypoint: entrypoint}, nil
}

// Call runs the function in a fresh runtime. The runtime is interrupted when
// ctx is done.
func (f *Function) Call(ctx context.Context, input string) (string, error) {
	vm := sobek.New()
	vm.SetFieldNameMapper(sobek.TagFieldNameMapper("json", true))

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt("execution cancelled")
		case <-done:
		}
	}()

	if _, err := vm.RunProgram(f.program); err != nil {
		return "", fmt.Errorf("loading function: %w", err)
	}

	fn, ok := sobek.AssertFunction(vm.Get(f.entrypoint))
	if !ok {
		return "", fmt.Errorf("%w: %s is not a function", ErrInvalidConfig, f.entrypoint)
	}

	result, err := fn(sobek.Undefined(), vm.ToValue(input))
	if err != nil {
		return "", fmt.Errorf("calling %s: %w", f.entrypoint, err)
	}
	return export(result)
}

func export(value sobek.Value) (string, error) {
	switch kind := value.(type) {
	case nil:
		return "", nil
	case sobek.String:
		return kind.String(), nil
	case *sobek.Object:
		data, err := json.Marshal(kind.Export())
		if err != nil {
			return "", fmt.Errorf("marshal result: %w", err)
		}
		return string(data), nil
	default:
		if sobek.IsUndefined(value) || sobek.IsNull(value) {
			return "", nil
		}
		return value.String(), nil
	}
}
