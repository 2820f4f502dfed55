package tool

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

const defaultMaxResults = 1000

var (
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotAllowed  = errors.New("path is not allowed")
	ErrNotFound        = errors.New("no such file or directory")
	ErrIsDirectory     = errors.New("path is a directory")
	ErrNotDirectory    = errors.New("path is not a directory")

	errLimitReached = errors.New("result limit reached")
)

type ReadFileInput struct {
	Path string `json:"path"`
}

type ReadFileResult struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

type ListFilesInput struct {
	Path      string `json:"path"`
	Recursive bool   `json:"recursive,omitempty"`
}

type ListFilesResult struct {
	Path      string           `json:"path"`
	Entries   []DirectoryEntry `json:"entries"`
	Truncated bool             `json:"truncated,omitempty"`
}

// DirectoryEntry is a file or directory. Size is in KB, rounded up.
type DirectoryEntry struct {
	Name string `json:"n"`
	Type string `json:"t"`
	Size int64  `json:"s"`
}

func runReadFile(_ context.Context, fsys afero.Fs, config map[string]any, args json.RawMessage) (any, error) {
	var input ReadFileInput
	if err := decodeArgs(args, &input); err != nil {
		return nil, err
	}
	return ReadFile(fsys, config, &input)
}

func runListFiles(_ context.Context, fsys afero.Fs, config map[string]any, args json.RawMessage) (any, error) {
	var input ListFilesInput
	if err := decodeArgs(args, &input); err != nil {
		return nil, err
	}
	return ListFiles(fsys, config, &input)
}

// ReadFile returns the content of a file with every line prefixed by its
// number.
func ReadFile(fsys afero.Fs, config map[string]any, input *ReadFileInput) (*ReadFileResult, error) {
	path, err := checkPath(config, input.Path)
	if err != nil {
		return nil, err
	}

	stat, err := fsys.Stat(path)
	if err != nil {
		return nil, statError(path, err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	file, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	var builder strings.Builder
	scanner := bufio.NewScanner(file)
	lineNumber := 1
	for scanner.Scan() {
		if lineNumber > 1 {
			builder.WriteByte('\n')
		}
		builder.WriteString(strconv.Itoa(lineNumber))
		builder.WriteString(": ")
		builder.WriteString(scanner.Text())
		lineNumber++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return &ReadFileResult{Path: path, Content: builder.String()}, nil
}

// ListFiles lists a directory, descending into subdirectories when
// Recursive is set. At most max_results entries are returned.
func ListFiles(fsys afero.Fs, config map[string]any, input *ListFilesInput) (*ListFilesResult, error) {
	path, err := checkPath(config, input.Path)
	if err != nil {
		return nil, err
	}

	info, err := fsys.Stat(path)
	if err != nil {
		return nil, statError(path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}

	limit := maxResults(config)
	result := &ListFilesResult{Path: path, Entries: []DirectoryEntry{}}
	add := func(name string, info fs.FileInfo) bool {
		if len(result.Entries) >= limit {
			result.Truncated = true
			return false
		}
		result.Entries = append(result.Entries, toDirectoryEntry(name, info))
		return true
	}

	if input.Recursive {
		err = afero.Walk(fsys, path, func(name string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if name == path {
				return nil
			}
			if !add(name, info) {
				return errLimitReached
			}
			return nil
		})
		if err != nil && !errors.Is(err, errLimitReached) {
			return nil, fmt.Errorf("walk %s: %w", path, err)
		}
		return result, nil
	}

	entries, err := afero.ReadDir(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", path, err)
	}
	for _, entry := range entries {
		if !add(filepath.Join(path, entry.Name()), entry) {
			break
		}
	}
	return result, nil
}

func checkPath(config map[string]any, path string) (string, error) {
	if path == "" {
		return "", errors.New("path is required")
	}
	if !filepath.IsAbs(path) {
		return "", fmt.Errorf("%w: %s", ErrPathNotAbsolute, path)
	}
	path = filepath.Clean(path)
	if !PathAllowed(config, path) {
		return "", fmt.Errorf("%w: %s", ErrPathNotAllowed, path)
	}
	return path, nil
}

func statError(path string, err error) error {
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return fmt.Errorf("stat %s: %w", path, err)
}

func maxResults(config map[string]any) int {
	switch v := config[KeyMaxResults].(type) {
	case float64:
		if v > 0 {
			return int(v)
		}
	case int:
		if v > 0 {
			return v
		}
	}
	return defaultMaxResults
}

func decodeArgs(args json.RawMessage, v any) error {
	if len(args) == 0 {
		return errors.New("arguments are required")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func toDirectoryEntry(path string, info fs.FileInfo) DirectoryEntry {
	if info.IsDir() {
		return DirectoryEntry{Name: path, Type: "d"}
	}
	return DirectoryEntry{Name: path, Type: "f", Size: (info.Size() + 1023) / 1024}
}
