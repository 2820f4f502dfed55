package tool

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/deepagents/control/backend/memory/schema/types"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		toolType types.ToolType
		config   map[string]any
		wantErr  bool
	}{
		{name: "builtin without config", toolType: types.ToolTypeBuiltin, config: nil},
		{name: "builtin with globs", toolType: types.ToolTypeBuiltin, config: map[string]any{"allowed_paths": []any{"src/**/*.go", "docs/*.md"}}},
		{name: "builtin with bad glob", toolType: types.ToolTypeBuiltin, config: map[string]any{"allowed_paths": []any{"src/[a-"}}, wantErr: true},
		{name: "builtin with non list globs", toolType: types.ToolTypeBuiltin, config: map[string]any{"allowed_paths": "src/**"}, wantErr: true},
		{name: "builtin with fractional max results", toolType: types.ToolTypeBuiltin, config: map[string]any{"max_results": 2.5}, wantErr: true},
		{name: "function", toolType: types.ToolTypeFunction, config: map[string]any{"source": "function handler(input) { return input.toUpperCase() }"}},
		{name: "function without source", toolType: types.ToolTypeFunction, config: map[string]any{}, wantErr: true},
		{name: "function with syntax error", toolType: types.ToolTypeFunction, config: map[string]any{"source": "function handler( {"}, wantErr: true},
		{name: "api", toolType: types.ToolTypeAPI, config: map[string]any{"url": "https://api.example.com/search", "method": "post"}},
		{name: "api with relative url", toolType: types.ToolTypeAPI, config: map[string]any{"url": "/search"}, wantErr: true},
		{name: "api with unknown method", toolType: types.ToolTypeAPI, config: map[string]any{"url": "https://api.example.com", "method": "TRACE"}, wantErr: true},
		{name: "unknown type", toolType: types.ToolType("plugin"), config: nil, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.toolType, tt.config)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Fatalf("expected ErrInvalidConfig, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestPathAllowed(t *testing.T) {
	config := map[string]any{"allowed_paths": []any{"src/**/*.go"}}

	if !PathAllowed(config, "src/backend/api/api.go") {
		t.Error("nested go file should be allowed")
	}
	if PathAllowed(config, "secrets/key.pem") {
		t.Error("path outside globs should be rejected")
	}
	if !PathAllowed(nil, "anything") {
		t.Error("tools without allowed_paths allow every path")
	}
}

func TestFunctionCall(t *testing.T) {
	tests := []struct {
		name   string
		config map[string]any
		input  string
		want   string
	}{
		{
			name:   "string result",
			config: map[string]any{"source": "function handler(input) { return input.toUpperCase() }"},
			input:  "hello",
			want:   "HELLO",
		},
		{
			name:   "object result",
			config: map[string]any{"source": "function summarize(input) { return {length: input.length} }", "entrypoint": "summarize"},
			input:  "four",
			want:   `{"length":4}`,
		},
		{
			name:   "undefined result",
			config: map[string]any{"source": "function handler() {}"},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := CompileFunction(tt.config)
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			got, err := fn.Call(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("call: %v", err)
			}
			if got != tt.want {
				t.Errorf("Call() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFunctionCallMissingEntrypoint(t *testing.T) {
	fn, err := CompileFunction(map[string]any{"source": "var handler = 1"})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := fn.Call(context.Background(), ""); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestFunctionCallInterruptedByContext(t *testing.T) {
	fn, err := CompileFunction(map[string]any{"source": "function handler() { while (true) {} }"})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := fn.Call(ctx, ""); err == nil {
		t.Fatal("expected the endless function to be interrupted")
	}
}
