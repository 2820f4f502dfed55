package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/deepagents/control/frontend/cli/pkg/terminal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type RenderOptions struct {
	Format    OutputFormat
	Wide      bool
	NoHeaders bool
}

type OutputFormat string

const (
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
	OutputFormatTable OutputFormat = "table"
	OutputFormatCard  OutputFormat = "card"
)

func (e *OutputFormat) String() string {
	if e == nil {
		return ""
	}
	return string(*e)
}

func (e *OutputFormat) Set(v string) error {
	switch v {
	case "json", "yaml", "table", "card":
		*e = OutputFormat(v)
		return nil
	default:
		return errors.New(`must be one of "json", "yaml", "table" or "card"`)
	}
}

func (e *OutputFormat) Type() string {
	return "format"
}

func WithCardFormat(options *RenderOptions) {
	options.Format = OutputFormatCard
}

func WithTableFormat(options *RenderOptions) {
	options.Format = OutputFormatTable
}

func addRenderOptions(cmd *cobra.Command, options *RenderOptions, defaults ...func(*RenderOptions)) {
	for _, apply := range defaults {
		apply(options)
	}
	if options.Format == "" {
		WithTableFormat(options)
	}

	cmd.Flags().VarP(&options.Format, "output", "o", fmt.Sprintf("output format (json, yaml, table, card)(default: %s)", options.Format))
	cmd.Flags().BoolVarP(&options.Wide, "wide", "w", false, "output verbosity (default: false)")
	cmd.Flags().BoolVarP(&options.NoHeaders, "no-headers", "", false, "do not print headers (default: false)")
}

type OutputRenderer interface {
	Render(out io.Writer, resources any, options *RenderOptions) error
}

// DefaultRenderer prints display structs. Fields are selected with the
// `detail` tag: "default" fields are always shown, "full" fields only with
// --wide. Card output renders fields tagged `render:"markdown"` with glamour.
type DefaultRenderer struct{}

var _ OutputRenderer = (*DefaultRenderer)(nil)

func (f *DefaultRenderer) Render(out io.Writer, resources any, options *RenderOptions) error {
	switch options.Format {
	case OutputFormatJSON:
		output, err := json.MarshalIndent(resources, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(output))
	case OutputFormatYAML:
		output, err := yaml.Marshal(resources)
		if err != nil {
			return err
		}
		fmt.Fprint(out, string(output))
	case OutputFormatCard:
		return renderCard(out, resources, options)
	case OutputFormatTable:
		return renderTable(out, resources, options)
	default:
		return fmt.Errorf("unsupported output format: %s", options.Format)
	}

	return nil
}

// collectItems flattens a struct, a pointer to one or a slice of them.
func collectItems(resources any) ([]reflect.Value, reflect.Type, error) {
	if resources == nil {
		return nil, nil, nil
	}

	value := reflect.ValueOf(resources)
	typ := value.Type()
	if value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil, nil, nil
		}
		value = value.Elem()
		typ = typ.Elem()
	}

	var items []reflect.Value
	itemType := typ
	if value.Kind() == reflect.Slice {
		for i := 0; i < value.Len(); i++ {
			item := value.Index(i)
			if item.Kind() == reflect.Ptr {
				if item.IsNil() {
					continue
				}
				item = item.Elem()
			}
			items = append(items, item)
		}
		itemType = typ.Elem()
	} else {
		items = append(items, value)
	}

	if itemType.Kind() == reflect.Ptr {
		itemType = itemType.Elem()
	}
	if itemType.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("only struct types can be rendered, got %v", itemType.Kind())
	}

	return items, itemType, nil
}

func renderTable(out io.Writer, resources any, options *RenderOptions) error {
	items, itemType, err := collectItems(resources)
	if err != nil || len(items) == 0 {
		return err
	}

	var fields []reflect.StructField
	for i := 0; i < itemType.NumField(); i++ {
		field := itemType.Field(i)
		if includeField(field, options.Wide) {
			fields = append(fields, field)
		}
	}
	if len(fields) == 0 {
		return nil
	}

	var rows [][]string
	widths := make([]int, len(fields))

	if !options.NoHeaders {
		headerRow := make([]string, len(fields))
		for i, field := range fields {
			header := columnName(field)
			headerRow[i] = terminal.Bold(header)
			widths[i] = len(header)
		}
		rows = append(rows, headerRow)
	}

	for _, item := range items {
		row := make([]string, len(fields))
		for i, field := range fields {
			row[i] = formatValue(item.FieldByIndex(field.Index))
			if len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
		rows = append(rows, row)
	}

	for _, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			if i > 0 {
				line.WriteString("  ")
			}
			line.WriteString(cell)
			if i < len(row)-1 {
				if padding := widths[i] - len(stripANSI(cell)); padding > 0 {
					line.WriteString(strings.Repeat(" ", padding))
				}
			}
		}
		fmt.Fprintln(out, line.String())
	}

	return nil
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func renderCard(out io.Writer, resources any, options *RenderOptions) error {
	items, itemType, err := collectItems(resources)
	if err != nil || len(items) == 0 {
		return err
	}

	var fields []reflect.StructField
	maxFieldNameWidth := 0
	for i := 0; i < itemType.NumField(); i++ {
		field := itemType.Field(i)
		if includeField(field, options.Wide) {
			fields = append(fields, field)
			if len(field.Name) > maxFieldNameWidth {
				maxFieldNameWidth = len(field.Name)
			}
		}
	}

	for idx, item := range items {
		for _, field := range fields {
			valueStr := formatValue(item.FieldByIndex(field.Index))
			if field.Tag.Get("render") == "markdown" && valueStr != "" {
				rendered, err := renderMarkdown(valueStr)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\n%s", field.Name+":", rendered)
				continue
			}

			fmt.Fprintf(out, "%-*s %s\n", maxFieldNameWidth+1, field.Name+":", valueStr)
		}

		if idx < len(items)-1 {
			fmt.Fprintln(out)
		}
	}

	return nil
}

func renderMarkdown(text string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(text)
}

func formatValue(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}

	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return ""
		}
		return formatValue(v.Elem())
	case reflect.String:
		return v.String()
	case reflect.Slice:
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = formatValue(v.Index(i))
		}
		return strings.Join(parts, ",")
	}

	if t, ok := v.Interface().(time.Time); ok {
		if t.IsZero() {
			return ""
		}
		return t.Format(time.RFC3339)
	}
	return fmt.Sprint(v.Interface())
}

func columnName(field reflect.StructField) string {
	if name := field.Tag.Get("column"); name != "" {
		return name
	}
	return strings.ToUpper(field.Name)
}

func includeField(field reflect.StructField, wide bool) bool {
	return field.IsExported() && (field.Tag.Get("detail") == "default" || (wide && field.Tag.Get("detail") == "full"))
}
