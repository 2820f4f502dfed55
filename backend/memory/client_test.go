package memory_test

import (
	"context"
	"testing"

	"github.com/deepagents/control/backend/memory"
	"github.com/deepagents/control/backend/memory/agent"
	"github.com/deepagents/control/backend/memory/schema/types"
	"github.com/deepagents/control/backend/memory/subagent"
	"github.com/deepagents/control/backend/memory/test"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestAgentLifecycle(t *testing.T) {
	ctx := context.Background()
	db := test.NewDatabase(t)

	owner := test.NewUserBuilder(t, db).Build(ctx)
	tool := test.NewToolBuilder(t, db, owner).Build(ctx)
	created := test.NewAgentBuilder(t, db, owner).WithTools(tool).Build(ctx)

	got, err := db.Agent.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get agent: %v", err)
	}
	if diff := cmp.Diff(created, got, cmpopts.EquateApproxTime(0)); diff != "" {
		t.Errorf("agent mismatch (-want +got):\n%s", diff)
	}

	toolIDs, err := db.Agent.ToolIDs(ctx, created.ID)
	if err != nil {
		t.Fatalf("tool ids: %v", err)
	}
	if diff := cmp.Diff([]uuid.UUID{tool.ID}, toolIDs[created.ID]); diff != "" {
		t.Errorf("tool ids mismatch (-want +got):\n%s", diff)
	}

	updated, err := db.Agent.UpdateOneID(created.ID).SetName("reviewer").SetMaxTokens(1024).SetToolIDs().Save(ctx)
	if err != nil {
		t.Fatalf("update agent: %v", err)
	}
	if updated.Name != "reviewer" || updated.MaxTokens != 1024 {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.UpdateTime.Before(created.UpdateTime) {
		t.Errorf("update time went backwards")
	}

	toolIDs, err = db.Agent.ToolIDs(ctx, created.ID)
	if err != nil {
		t.Fatalf("tool ids: %v", err)
	}
	if len(toolIDs[created.ID]) != 0 {
		t.Errorf("expected tool links to be cleared, got %v", toolIDs[created.ID])
	}

	if err := db.Agent.DeleteOneID(created.ID).Exec(ctx); err != nil {
		t.Fatalf("delete agent: %v", err)
	}

	_, err = db.Agent.Get(ctx, created.ID)
	if !memory.IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}

	err = db.Agent.DeleteOneID(created.ID).Exec(ctx)
	if !memory.IsNotFound(err) {
		t.Fatalf("expected not found error on second delete, got %v", err)
	}
}

func TestAgentSoftDelete(t *testing.T) {
	ctx := context.Background()
	db := test.NewDatabase(t)

	owner := test.NewUserBuilder(t, db).Build(ctx)
	live := test.NewAgentBuilder(t, db, owner).Build(ctx)
	deleted := test.NewAgentBuilder(t, db, owner).WithID(test.AgentID2()).WithDeleted(true).Build(ctx)

	if !deleted.Deleted() {
		t.Fatalf("expected agent to be soft deleted")
	}

	ids, err := db.Agent.Query().Where(agent.OwnerID(owner.ID), agent.NotDeleted()).IDs(ctx)
	if err != nil {
		t.Fatalf("query agents: %v", err)
	}
	if diff := cmp.Diff([]uuid.UUID{live.ID}, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}

	restored, err := db.Agent.UpdateOneID(deleted.ID).ClearDeleteTime().Save(ctx)
	if err != nil {
		t.Fatalf("restore agent: %v", err)
	}
	if restored.Deleted() {
		t.Errorf("expected agent to be restored")
	}
}

func TestSubagentConstraints(t *testing.T) {
	ctx := context.Background()
	db := test.NewDatabase(t)

	owner := test.NewUserBuilder(t, db).Build(ctx)
	parent := test.NewAgentBuilder(t, db, owner).Build(ctx)
	child := test.NewAgentBuilder(t, db, owner).WithID(test.AgentID2()).WithName("tester").Build(ctx)

	first := test.NewSubagentBuilder(t, db, parent, child).Build(ctx)
	if first.ID == 0 {
		t.Fatalf("expected server assigned id")
	}

	_, err := db.Subagent.Create().SetAgentID(parent.ID).SetSubagentID(child.ID).Save(ctx)
	if !memory.IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}

	_, err = db.Subagent.Create().SetAgentID(parent.ID).SetSubagentID(uuid.New()).Save(ctx)
	if !memory.IsConstraintError(err) {
		t.Fatalf("expected foreign key violation, got %v", err)
	}

	if err := db.Agent.DeleteOneID(child.ID).Exec(ctx); err != nil {
		t.Fatalf("delete child: %v", err)
	}

	n, err := db.Subagent.Query().Where(subagent.AgentID(parent.ID)).Count(ctx)
	if err != nil {
		t.Fatalf("count edges: %v", err)
	}
	if n != 0 {
		t.Errorf("expected edge to cascade, %d left", n)
	}
}

func TestSubagentOrdering(t *testing.T) {
	ctx := context.Background()
	db := test.NewDatabase(t)

	owner := test.NewUserBuilder(t, db).Build(ctx)
	parent := test.NewAgentBuilder(t, db, owner).Build(ctx)
	a := test.NewAgentBuilder(t, db, owner).WithID(test.AgentID2()).WithName("a").Build(ctx)
	b := test.NewAgentBuilder(t, db, owner).WithID(test.AgentID3()).WithName("b").Build(ctx)
	c := test.NewAgentBuilder(t, db, owner).WithID(test.AgentID4()).WithName("c").Build(ctx)

	test.NewSubagentBuilder(t, db, parent, a).WithPriority(5).Build(ctx)
	test.NewSubagentBuilder(t, db, parent, b).WithPriority(1).Build(ctx)
	test.NewSubagentBuilder(t, db, parent, c).WithPriority(5).Build(ctx)

	edges, err := db.Subagent.Query().Where(subagent.AgentID(parent.ID)).Order(subagent.ByPriority()).All(ctx)
	if err != nil {
		t.Fatalf("list edges: %v", err)
	}

	var got []uuid.UUID
	for _, e := range edges {
		got = append(got, e.SubagentID)
	}
	if diff := cmp.Diff([]uuid.UUID{b.ID, a.ID, c.ID}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestExecutionTransitionsAndEvents(t *testing.T) {
	ctx := context.Background()
	db := test.NewDatabase(t)

	owner := test.NewUserBuilder(t, db).Build(ctx)
	ag := test.NewAgentBuilder(t, db, owner).Build(ctx)
	exec := test.NewExecutionBuilder(t, db, ag).Build(ctx)

	ok, err := db.Execution.Transition(ctx, db.Execution.UpdateOneID(exec.ID).SetStatus(types.ExecutionStatusRunning), types.ExecutionStatusPending)
	if err != nil || !ok {
		t.Fatalf("pending -> running: ok=%v err=%v", ok, err)
	}

	ok, err = db.Execution.Transition(ctx, db.Execution.UpdateOneID(exec.ID).SetStatus(types.ExecutionStatusRunning), types.ExecutionStatusPending)
	if err != nil || ok {
		t.Fatalf("second transition should not apply: ok=%v err=%v", ok, err)
	}

	for _, eventType := range []types.ExecutionEventType{types.ExecutionEventStarted, types.ExecutionEventModelCall} {
		if _, err := db.Execution.AddEvent(ctx, exec.ID, eventType, map[string]any{"agent": ag.Name}); err != nil {
			t.Fatalf("add event: %v", err)
		}
	}

	done, err := db.Execution.UpdateOneID(exec.ID).
		SetStatus(types.ExecutionStatusCompleted).
		SetCost(decimal.RequireFromString("0.0125")).
		Save(ctx)
	if err != nil {
		t.Fatalf("complete execution: %v", err)
	}
	if !done.Cost.Equal(decimal.RequireFromString("0.0125")) {
		t.Errorf("cost mismatch: %s", done.Cost)
	}

	events, err := db.Execution.Events(ctx, exec.ID)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}

	type row struct {
		Sequence  int
		EventType types.ExecutionEventType
		Payload   map[string]any
	}
	var got []row
	for _, e := range events {
		got = append(got, row{e.Sequence, e.EventType, e.Payload})
	}
	want := []row{
		{1, types.ExecutionEventStarted, map[string]any{"agent": ag.Name}},
		{2, types.ExecutionEventModelCall, map[string]any{"agent": ag.Name}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}
