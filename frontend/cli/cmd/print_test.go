package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type widget struct {
	ID      string    `json:"id" detail:"default"`
	Name    string    `json:"name" detail:"default"`
	Size    int       `json:"size" column:"SIZE (KB)" detail:"default"`
	Tags    []string  `json:"tags" detail:"full"`
	Created time.Time `json:"created" detail:"full"`
	Notes   string    `json:"notes" detail:"full" render:"markdown"`
	secret  string
}

func TestRenderTable(t *testing.T) {
	widgets := []*widget{
		{ID: "1", Name: "gear", Size: 12, Tags: []string{"a", "b"}},
		{ID: "2", Name: "sprocket", Size: 7},
	}

	tests := []struct {
		name    string
		options RenderOptions
		want    string
	}{
		{
			name:    "default columns",
			options: RenderOptions{Format: OutputFormatTable},
			want: "ID  NAME      SIZE (KB)\n" +
				"1   gear      12\n" +
				"2   sprocket  7\n",
		},
		{
			name:    "no headers",
			options: RenderOptions{Format: OutputFormatTable, NoHeaders: true},
			want: "1  gear      12\n" +
				"2  sprocket  7\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out strings.Builder
			if err := (&DefaultRenderer{}).Render(&out, widgets, &tt.options); err != nil {
				t.Fatalf("Render: %v", err)
			}
			if diff := cmp.Diff(tt.want, stripANSI(out.String())); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderWideTable(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var out strings.Builder
	err := (&DefaultRenderer{}).Render(&out, &widget{ID: "1", Name: "gear", Tags: []string{"a", "b"}, Created: created}, &RenderOptions{Format: OutputFormatTable, Wide: true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	lines := strings.Split(strings.TrimRight(stripANSI(out.String()), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", lines)
	}
	for _, want := range []string{"TAGS", "CREATED", "NOTES"} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("header %q misses %s", lines[0], want)
		}
	}
	for _, want := range []string{"a,b", "2026-01-02T03:04:05Z"} {
		if !strings.Contains(lines[1], want) {
			t.Errorf("row %q misses %s", lines[1], want)
		}
	}
}

func TestRenderCard(t *testing.T) {
	var out strings.Builder
	err := (&DefaultRenderer{}).Render(&out, &widget{ID: "1", Name: "gear", Size: 12}, &RenderOptions{Format: OutputFormatCard})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	want := "ID:   1\n" +
		"Name: gear\n" +
		"Size: 12\n"
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderCardMarkdown(t *testing.T) {
	var out strings.Builder
	err := (&DefaultRenderer{}).Render(&out, &widget{ID: "1", Notes: "Prefer **primary** sources"}, &RenderOptions{Format: OutputFormatCard, Wide: true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	rendered := stripANSI(out.String())
	if !strings.Contains(rendered, "Notes:\n") || !strings.Contains(rendered, "primary") {
		t.Errorf("markdown field not rendered:\n%s", rendered)
	}
}

func TestRenderJSONAndYAML(t *testing.T) {
	item := &widget{ID: "1", Name: "gear", Size: 12}

	var out strings.Builder
	if err := (&DefaultRenderer{}).Render(&out, item, &RenderOptions{Format: OutputFormatYAML}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(out.String(), "id: \"1\"\nname: gear\nsize: 12\n") {
		t.Errorf("unexpected yaml:\n%s", out.String())
	}

	out.Reset()
	if err := (&DefaultRenderer{}).Render(&out, []*widget{item}, &RenderOptions{Format: OutputFormatJSON}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(out.String(), "[\n  {\n    \"id\": \"1\",") {
		t.Errorf("unexpected json:\n%s", out.String())
	}
}

func TestRenderRejectsNonStructs(t *testing.T) {
	err := (&DefaultRenderer{}).Render(&strings.Builder{}, []string{"a"}, &RenderOptions{Format: OutputFormatTable})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestRequiresContext(t *testing.T) {
	root := NewRootCmd()

	tests := map[string]bool{
		"serve":           false,
		"migrate":         false,
		"login":           false,
		"version":         false,
		"config show":     false,
		"agent list":      true,
		"subagent add":    true,
		"agent create":    true,
		"subagent remove": true,
	}
	for path, want := range tests {
		cmd, _, err := root.Find(strings.Fields(path))
		if err != nil {
			t.Fatalf("find %s: %v", path, err)
		}
		if got := requiresContext(cmd); got != want {
			t.Errorf("requiresContext(%s) = %v, want %v", path, got, want)
		}
	}
}
