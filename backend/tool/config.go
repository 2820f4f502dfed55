package tool

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/deepagents/control/backend/memory/schema/types"
)

// Configuration keys understood per tool type.
const (
	KeyAllowedPaths = "allowed_paths"
	KeyMaxResults   = "max_results"
	KeySource       = "source"
	KeyEntrypoint   = "entrypoint"
	KeyURL          = "url"
	KeyMethod       = "method"
)

var ErrInvalidConfig = errors.New("invalid tool config")

var apiMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE"}

// Validate checks the type specific configuration of a tool.
func Validate(toolType types.ToolType, config map[string]any) error {
	switch toolType {
	case types.ToolTypeBuiltin:
		return validateBuiltin(config)
	case types.ToolTypeFunction:
		_, err := CompileFunction(config)
		return err
	case types.ToolTypeAPI:
		return validateAPI(config)
	default:
		return fmt.Errorf("%w: unknown tool type %q", ErrInvalidConfig, toolType)
	}
}

func validateBuiltin(config map[string]any) error {
	if raw, ok := config[KeyAllowedPaths]; ok {
		patterns, ok := raw.([]any)
		if !ok {
			return fmt.Errorf("%w: %s must be a list of glob patterns", ErrInvalidConfig, KeyAllowedPaths)
		}
		for _, p := range patterns {
			pattern, ok := p.(string)
			if !ok || !doublestar.ValidatePattern(pattern) {
				return fmt.Errorf("%w: invalid glob pattern %v", ErrInvalidConfig, p)
			}
		}
	}

	if raw, ok := config[KeyMaxResults]; ok {
		n, ok := raw.(float64)
		if !ok || n <= 0 || n != float64(int(n)) {
			return fmt.Errorf("%w: %s must be a positive integer", ErrInvalidConfig, KeyMaxResults)
		}
	}
	return nil
}

func validateAPI(config map[string]any) error {
	raw, _ := config[KeyURL].(string)
	u, err := url.Parse(raw)
	if raw == "" || err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s must be an absolute http(s) URL", ErrInvalidConfig, KeyURL)
	}

	if raw, ok := config[KeyMethod]; ok {
		method, _ := raw.(string)
		if !slices.Contains(apiMethods, strings.ToUpper(method)) {
			return fmt.Errorf("%w: unsupported method %v", ErrInvalidConfig, raw)
		}
	}
	return nil
}

// PathAllowed reports whether path matches one of the allowed_paths globs of
// a builtin tool. Tools without the key allow every path.
func PathAllowed(config map[string]any, path string) bool {
	raw, ok := config[KeyAllowedPaths].([]any)
	if !ok {
		return true
	}
	for _, p := range raw {
		pattern, _ := p.(string)
		if match, err := doublestar.Match(pattern, path); err == nil && match {
			return true
		}
	}
	return false
}
