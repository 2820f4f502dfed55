package memory_test

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
	"github.com/deepagents/control/backend/memory"
	entschema "github.com/deepagents/control/backend/memory/schema"
	"github.com/google/go-cmp/cmp"
)

type column struct {
	Type     field.Type
	Unique   bool
	Nullable bool
	Default  string
}

func declaredColumns(s ent.Interface) (map[string]column, field.Type) {
	var fields []ent.Field
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
	}
	fields = append(fields, s.Fields()...)

	idType := field.TypeInt
	columns := map[string]column{}
	for _, f := range fields {
		d := f.Descriptor()
		if d.Name == "id" {
			idType = d.Info.Type
			continue
		}
		def := ""
		if d.Default != nil && reflect.TypeOf(d.Default).Kind() != reflect.Func {
			def = fmt.Sprint(d.Default)
		}
		columns[d.Name] = column{Type: d.Info.Type, Unique: d.Unique, Nullable: d.Optional, Default: def}
	}
	return columns, idType
}

func tableColumns(t *schema.Table) map[string]column {
	columns := map[string]column{}
	for _, c := range t.Columns {
		if c.Name == "id" {
			continue
		}
		def := ""
		if c.Default != nil {
			def = fmt.Sprint(c.Default)
		}
		columns[c.Name] = column{Type: c.Type, Unique: c.Unique, Nullable: c.Nullable, Default: def}
	}
	return columns
}

func declaredIndexes(s ent.Interface) []string {
	var indexes []ent.Index
	for _, m := range s.Mixin() {
		indexes = append(indexes, m.Indexes()...)
	}
	indexes = append(indexes, s.Indexes()...)

	var out []string
	for _, idx := range indexes {
		d := idx.Descriptor()
		out = append(out, fmt.Sprintf("%s unique=%v", strings.Join(d.Fields, ","), d.Unique))
	}
	slices.Sort(out)
	return out
}

func tableIndexes(t *schema.Table) []string {
	var out []string
	for _, idx := range t.Indexes {
		var names []string
		for _, c := range idx.Columns {
			names = append(names, c.Name)
		}
		out = append(out, fmt.Sprintf("%s unique=%v", strings.Join(names, ","), idx.Unique))
	}
	slices.Sort(out)
	return out
}

func TestTablesMatchSchema(t *testing.T) {
	tests := []struct {
		schema ent.Interface
		table  *schema.Table
	}{
		{entschema.User{}, memory.UsersTable},
		{entschema.Agent{}, memory.AgentsTable},
		{entschema.Subagent{}, memory.AgentSubagentsTable},
		{entschema.Tool{}, memory.ToolsTable},
		{entschema.Template{}, memory.TemplatesTable},
		{entschema.Execution{}, memory.ExecutionsTable},
		{entschema.ExecutionEvent{}, memory.ExecutionEventsTable},
	}

	for _, tt := range tests {
		t.Run(tt.table.Name, func(t *testing.T) {
			want, idType := declaredColumns(tt.schema)
			if diff := cmp.Diff(want, tableColumns(tt.table)); diff != "" {
				t.Errorf("columns mismatch (-schema +table):\n%s", diff)
			}
			if got := tt.table.PrimaryKey[0].Type; got != idType {
				t.Errorf("primary key type = %v, want %v", got, idType)
			}
			if diff := cmp.Diff(declaredIndexes(tt.schema), tableIndexes(tt.table)); diff != "" {
				t.Errorf("indexes mismatch (-schema +table):\n%s", diff)
			}
		})
	}
}

func TestDelegationEdgeSchema(t *testing.T) {
	var names []string
	for _, a := range (entschema.Subagent{}).Annotations() {
		if a, ok := a.(*entsql.Annotation); ok {
			names = append(names, a.Table)
		}
	}
	if diff := cmp.Diff([]string{memory.AgentSubagentsTable.Name}, names); diff != "" {
		t.Errorf("edge schema table mismatch (-want +got):\n%s", diff)
	}

	edges := map[string]ent.Edge{}
	for _, e := range (entschema.Agent{}).Edges() {
		edges[e.Descriptor().Name] = e
	}

	delegators, ok := edges["delegators"]
	if !ok {
		t.Fatal("agent has no delegators edge")
	}
	d := delegators.Descriptor()
	if !d.Inverse || d.Ref == nil || d.Ref.Name != "delegates" || d.Type != "Agent" {
		t.Fatalf("delegators must be the inverse of the agent self edge delegates, got %+v", d)
	}
	if d.Ref.Through == nil || d.Ref.Through.N != "subagents" || d.Ref.Through.T != "Subagent" {
		t.Errorf("delegates must go through the Subagent edge schema, got %+v", d.Ref.Through)
	}

	tools, ok := edges["tools"]
	if !ok {
		t.Fatal("agent has no tools edge")
	}
	key := tools.Descriptor().StorageKey
	var joinColumns []string
	for _, c := range memory.AgentToolsTable.Columns {
		joinColumns = append(joinColumns, c.Name)
	}
	if key == nil || key.Table != memory.AgentToolsTable.Name || !slices.Equal(key.Columns, joinColumns) {
		t.Errorf("tools edge storage key = %+v, want table %s with columns %v", key, memory.AgentToolsTable.Name, joinColumns)
	}
}

func TestSchemaWriteToDoesNotMigrate(t *testing.T) {
	ctx := context.Background()
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_txlock=immediate", filepath.Join(t.TempDir(), "plan.db"))
	db, err := memory.Open(ctx, dsn, memory.WithPingAttempts(1))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	defer db.Close()

	var plan bytes.Buffer
	if err := db.Schema.WriteTo(ctx, &plan, schema.WithIndent(" ")); err != nil {
		t.Fatalf("write schema: %v", err)
	}
	for _, want := range []string{"CREATE TABLE", "agent_subagents", "agentsubagent_agent_id_subagent_id"} {
		if !strings.Contains(plan.String(), want) {
			t.Errorf("plan does not mention %q:\n%s", want, plan.String())
		}
	}

	if _, err := db.Agent.Query().IDs(ctx); err == nil {
		t.Error("expected the agents table to be missing after writing the plan")
	}
}
