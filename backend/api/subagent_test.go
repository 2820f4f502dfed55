package api

import (
	"context"
	"fmt"
	"testing"

	api_client "github.com/deepagents/control/api/go/client"
	v1 "github.com/deepagents/control/api/go/v1"
	"github.com/deepagents/control/backend/memory"
	"github.com/deepagents/control/backend/memory/test"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
)

type addSubagentCall struct {
	AgentID uuid.UUID
	Request v1.AddSubagentRequest
}

type subagentCall struct {
	AgentID    uuid.UUID
	SubagentID uuid.UUID
	Update     v1.UpdateSubagentRequest
}

// seedAgents creates agents with the fixed test ids owned by caller, named
// after their position.
func seedAgents(ctx context.Context, t *testing.T, db *memory.Client, caller *memory.User, n int) []*memory.Agent {
	ids := []uuid.UUID{test.AgentID(), test.AgentID2(), test.AgentID3(), test.AgentID4()}
	agents := make([]*memory.Agent, n)
	for i := range n {
		agents[i] = test.NewAgentBuilder(t, db, caller).
			WithID(ids[i]).
			WithName(fmt.Sprintf("agent-%d", i+1)).
			Build(ctx)
	}
	return agents
}

func TestAddSubagent(t *testing.T) {
	setup := ServiceTestSetup[addSubagentCall, *v1.Subagent]{
		Call: func(ctx context.Context, client *api_client.Client, req *addSubagentCall) (*v1.Subagent, error) {
			return client.Subagent().AddSubagent(ctx, req.AgentID, &req.Request)
		},
		CmpOptions: []cmp.Option{ignoreMetadata()},
	}

	otherUser := func(ctx context.Context, t *testing.T, db *memory.Client) *memory.User {
		return test.NewUserBuilder(t, db).WithID(test.UserID2()).WithUsername("grace").Build(ctx)
	}

	setup.RunServiceTests(t, []ServiceTestScenario[addSubagentCall, *v1.Subagent]{
		{
			Name: "adds a delegation",
			SeedDatabase: func(ctx context.Context, db *memory.Client, caller *memory.User) {
				seedAgents(ctx, t, db, caller, 2)
			},
			Request: &addSubagentCall{
				AgentID: test.AgentID(),
				Request: v1.AddSubagentRequest{SubagentID: test.AgentID2(), DelegationPrompt: "review the diff", Priority: 3},
			},
			Expected: ServiceTestExpectation[*v1.Subagent]{
				Response: &v1.Subagent{
					AgentID:          test.AgentID(),
					SubagentID:       test.AgentID2(),
					DelegationPrompt: "review the diff",
					Priority:         3,
				},
			},
		},
		{
			Name: "rejects self delegation",
			SeedDatabase: func(ctx context.Context, db *memory.Client, caller *memory.User) {
				seedAgents(ctx, t, db, caller, 1)
			},
			Request: &addSubagentCall{
				AgentID: test.AgentID(),
				Request: v1.AddSubagentRequest{SubagentID: test.AgentID()},
			},
			Expected: ServiceTestExpectation[*v1.Subagent]{
				Error: fmt.Sprintf("bad_request: agent cannot delegate to itself: %s", test.AgentID()),
			},
		},
		{
			Name: "rejects duplicate delegation",
			SeedDatabase: func(ctx context.Context, db *memory.Client, caller *memory.User) {
				agents := seedAgents(ctx, t, db, caller, 2)
				test.NewSubagentBuilder(t, db, agents[0], agents[1]).Build(ctx)
			},
			Request: &addSubagentCall{
				AgentID: test.AgentID(),
				Request: v1.AddSubagentRequest{SubagentID: test.AgentID2()},
			},
			Expected: ServiceTestExpectation[*v1.Subagent]{
				Error: fmt.Sprintf("bad_request: subagent relationship already exists: %s -> %s", test.AgentID(), test.AgentID2()),
			},
		},
		{
			Name: "rejects direct cycle",
			SeedDatabase: func(ctx context.Context, db *memory.Client, caller *memory.User) {
				agents := seedAgents(ctx, t, db, caller, 2)
				test.NewSubagentBuilder(t, db, agents[0], agents[1]).Build(ctx)
			},
			Request: &addSubagentCall{
				AgentID: test.AgentID2(),
				Request: v1.AddSubagentRequest{SubagentID: test.AgentID()},
			},
			Expected: ServiceTestExpectation[*v1.Subagent]{
				Error: fmt.Sprintf("bad_request: circular delegation: %s already reaches %s", test.AgentID(), test.AgentID2()),
			},
		},
		{
			Name: "rejects transitive cycle",
			SeedDatabase: func(ctx context.Context, db *memory.Client, caller *memory.User) {
				agents := seedAgents(ctx, t, db, caller, 3)
				test.NewSubagentBuilder(t, db, agents[0], agents[1]).Build(ctx)
				test.NewSubagentBuilder(t, db, agents[1], agents[2]).Build(ctx)
			},
			Request: &addSubagentCall{
				AgentID: test.AgentID3(),
				Request: v1.AddSubagentRequest{SubagentID: test.AgentID()},
			},
			Expected: ServiceTestExpectation[*v1.Subagent]{
				Error: fmt.Sprintf("bad_request: circular delegation: %s already reaches %s", test.AgentID(), test.AgentID3()),
			},
		},
		{
			Name: "allows diamonds",
			SeedDatabase: func(ctx context.Context, db *memory.Client, caller *memory.User) {
				agents := seedAgents(ctx, t, db, caller, 4)
				test.NewSubagentBuilder(t, db, agents[0], agents[1]).Build(ctx)
				test.NewSubagentBuilder(t, db, agents[0], agents[2]).Build(ctx)
				test.NewSubagentBuilder(t, db, agents[1], agents[3]).Build(ctx)
			},
			Request: &addSubagentCall{
				AgentID: test.AgentID3(),
				Request: v1.AddSubagentRequest{SubagentID: test.AgentID4()},
			},
			Expected: ServiceTestExpectation[*v1.Subagent]{
				Response: &v1.Subagent{AgentID: test.AgentID3(), SubagentID: test.AgentID4()},
			},
		},
		{
			Name: "unknown parent",
			Request: &addSubagentCall{
				AgentID: test.AgentID(),
				Request: v1.AddSubagentRequest{SubagentID: test.AgentID2()},
			},
			Expected: ServiceTestExpectation[*v1.Subagent]{
				Error: "not_found: agent not found",
			},
		},
		{
			Name: "unknown child",
			SeedDatabase: func(ctx context.Context, db *memory.Client, caller *memory.User) {
				seedAgents(ctx, t, db, caller, 1)
			},
			Request: &addSubagentCall{
				AgentID: test.AgentID(),
				Request: v1.AddSubagentRequest{SubagentID: test.AgentID2()},
			},
			Expected: ServiceTestExpectation[*v1.Subagent]{
				Error: "not_found: agent not found",
			},
		},
		{
			Name: "child owned by another user",
			SeedDatabase: func(ctx context.Context, db *memory.Client, caller *memory.User) {
				seedAgents(ctx, t, db, caller, 1)
				test.NewAgentBuilder(t, db, otherUser(ctx, t, db)).WithID(test.AgentID2()).Build(ctx)
			},
			Request: &addSubagentCall{
				AgentID: test.AgentID(),
				Request: v1.AddSubagentRequest{SubagentID: test.AgentID2()},
			},
			Expected: ServiceTestExpectation[*v1.Subagent]{
				Error: "not_found: agent not found",
			},
		},
		{
			Name: "soft deleted child",
			SeedDatabase: func(ctx context.Context, db *memory.Client, caller *memory.User) {
				seedAgents(ctx, t, db, caller, 1)
				test.NewAgentBuilder(t, db, caller).WithID(test.AgentID2()).WithDeleted(true).Build(ctx)
			},
			Request: &addSubagentCall{
				AgentID: test.AgentID(),
				Request: v1.AddSubagentRequest{SubagentID: test.AgentID2()},
			},
			Expected: ServiceTestExpectation[*v1.Subagent]{
				Error: "not_found: agent not found",
			},
		},
		{
			Name:      "anonymous",
			Anonymous: true,
			Request: &addSubagentCall{
				AgentID: test.AgentID(),
				Request: v1.AddSubagentRequest{SubagentID: test.AgentID2()},
			},
			Expected: ServiceTestExpectation[*v1.Subagent]{
				Error: "unauthorized: not authenticated",
			},
		},
		{
			Name: "missing subagent id",
			SeedDatabase: func(ctx context.Context, db *memory.Client, caller *memory.User) {
				seedAgents(ctx, t, db, caller, 1)
			},
			Request: &addSubagentCall{AgentID: test.AgentID()},
			Expected: ServiceTestExpectation[*v1.Subagent]{
				Error: "unprocessable_entity: subagent_id is required",
			},
		},
	})
}

func TestListSubagents(t *testing.T) {
	setup := ServiceTestSetup[subagentCall, []*v1.Subagent]{
		Call: func(ctx context.Context, client *api_client.Client, req *subagentCall) ([]*v1.Subagent, error) {
			return client.Subagent().ListSubagents(ctx, req.AgentID)
		},
		CmpOptions: []cmp.Option{ignoreMetadata()},
	}

	setup.RunServiceTests(t, []ServiceTestScenario[subagentCall, []*v1.Subagent]{
		{
			Name: "ordered by priority",
			SeedDatabase: func(ctx context.Context, db *memory.Client, caller *memory.User) {
				agents := seedAgents(ctx, t, db, caller, 4)
				test.NewSubagentBuilder(t, db, agents[0], agents[1]).WithPriority(5).Build(ctx)
				test.NewSubagentBuilder(t, db, agents[0], agents[2]).WithPriority(1).Build(ctx)
				test.NewSubagentBuilder(t, db, agents[0], agents[3]).WithPriority(5).Build(ctx)
			},
			Request: &subagentCall{AgentID: test.AgentID()},
			Expected: ServiceTestExpectation[[]*v1.Subagent]{
				Response: []*v1.Subagent{
					{
						AgentID:          test.AgentID(),
						SubagentID:       test.AgentID3(),
						DelegationPrompt: "Delegate to agent-3",
						Priority:         1,
						Subagent:         &v1.SubagentSummary{ID: test.AgentID3(), Name: "agent-3", IsActive: true},
					},
					{
						AgentID:          test.AgentID(),
						SubagentID:       test.AgentID2(),
						DelegationPrompt: "Delegate to agent-2",
						Priority:         5,
						Subagent:         &v1.SubagentSummary{ID: test.AgentID2(), Name: "agent-2", IsActive: true},
					},
					{
						AgentID:          test.AgentID(),
						SubagentID:       test.AgentID4(),
						DelegationPrompt: "Delegate to agent-4",
						Priority:         5,
						Subagent:         &v1.SubagentSummary{ID: test.AgentID4(), Name: "agent-4", IsActive: true},
					},
				},
			},
		},
		{
			Name: "hides soft deleted subagents",
			SeedDatabase: func(ctx context.Context, db *memory.Client, caller *memory.User) {
				agents := seedAgents(ctx, t, db, caller, 1)
				deleted := test.NewAgentBuilder(t, db, caller).WithID(test.AgentID2()).WithDeleted(true).Build(ctx)
				test.NewSubagentBuilder(t, db, agents[0], deleted).Build(ctx)
			},
			Request: &subagentCall{AgentID: test.AgentID()},
			Expected: ServiceTestExpectation[[]*v1.Subagent]{
				Response: []*v1.Subagent{},
			},
		},
		{
			Name: "no subagents",
			SeedDatabase: func(ctx context.Context, db *memory.Client, caller *memory.User) {
				seedAgents(ctx, t, db, caller, 1)
			},
			Request: &subagentCall{AgentID: test.AgentID()},
			Expected: ServiceTestExpectation[[]*v1.Subagent]{
				Response: []*v1.Subagent{},
			},
		},
		{
			Name: "superuser sees other users agents",
			Caller: func(b *test.UserBuilder) *test.UserBuilder {
				return b.WithSuperuser(true)
			},
			SeedDatabase: func(ctx context.Context, db *memory.Client, caller *memory.User) {
				owner := test.NewUserBuilder(t, db).WithID(test.UserID2()).WithUsername("grace").Build(ctx)
				agents := seedAgents(ctx, t, db, owner, 2)
				test.NewSubagentBuilder(t, db, agents[0], agents[1]).Build(ctx)
			},
			Request: &subagentCall{AgentID: test.AgentID()},
			Expected: ServiceTestExpectation[[]*v1.Subagent]{
				Response: []*v1.Subagent{
					{
						AgentID:          test.AgentID(),
						SubagentID:       test.AgentID2(),
						DelegationPrompt: "Delegate to agent-2",
						Subagent:         &v1.SubagentSummary{ID: test.AgentID2(), Name: "agent-2", IsActive: true},
					},
				},
			},
		},
		{
			Name:    "unknown agent",
			Request: &subagentCall{AgentID: test.AgentID()},
			Expected: ServiceTestExpectation[[]*v1.Subagent]{
				Error: "not_found: agent not found",
			},
		},
	})
}

func TestUpdateSubagent(t *testing.T) {
	setup := ServiceTestSetup[subagentCall, *v1.Subagent]{
		Call: func(ctx context.Context, client *api_client.Client, req *subagentCall) (*v1.Subagent, error) {
			return client.Subagent().UpdateSubagent(ctx, req.AgentID, req.SubagentID, &req.Update)
		},
		CmpOptions: []cmp.Option{ignoreMetadata()},
	}

	setup.RunServiceTests(t, []ServiceTestScenario[subagentCall, *v1.Subagent]{
		{
			Name: "updates priority only",
			SeedDatabase: func(ctx context.Context, db *memory.Client, caller *memory.User) {
				agents := seedAgents(ctx, t, db, caller, 2)
				test.NewSubagentBuilder(t, db, agents[0], agents[1]).WithPriority(2).Build(ctx)
			},
			Request: &subagentCall{
				AgentID:    test.AgentID(),
				SubagentID: test.AgentID2(),
				Update:     v1.UpdateSubagentRequest{Priority: api_client.Ptr(7)},
			},
			Expected: ServiceTestExpectation[*v1.Subagent]{
				Response: &v1.Subagent{
					AgentID:          test.AgentID(),
					SubagentID:       test.AgentID2(),
					DelegationPrompt: "Delegate to agent-2",
					Priority:         7,
				},
			},
		},
		{
			Name: "updates prompt",
			SeedDatabase: func(ctx context.Context, db *memory.Client, caller *memory.User) {
				agents := seedAgents(ctx, t, db, caller, 2)
				test.NewSubagentBuilder(t, db, agents[0], agents[1]).WithPriority(2).Build(ctx)
			},
			Request: &subagentCall{
				AgentID:    test.AgentID(),
				SubagentID: test.AgentID2(),
				Update:     v1.UpdateSubagentRequest{DelegationPrompt: api_client.Ptr("only for tests")},
			},
			Expected: ServiceTestExpectation[*v1.Subagent]{
				Response: &v1.Subagent{
					AgentID:          test.AgentID(),
					SubagentID:       test.AgentID2(),
					DelegationPrompt: "only for tests",
					Priority:         2,
				},
			},
		},
		{
			Name: "missing relationship",
			SeedDatabase: func(ctx context.Context, db *memory.Client, caller *memory.User) {
				seedAgents(ctx, t, db, caller, 2)
			},
			Request: &subagentCall{
				AgentID:    test.AgentID(),
				SubagentID: test.AgentID2(),
				Update:     v1.UpdateSubagentRequest{Priority: api_client.Ptr(1)},
			},
			Expected: ServiceTestExpectation[*v1.Subagent]{
				Error: fmt.Sprintf("not_found: subagent relationship not found: %s -> %s", test.AgentID(), test.AgentID2()),
			},
		},
	})
}

func TestRemoveSubagent(t *testing.T) {
	setup := ServiceTestSetup[subagentCall, []*v1.Subagent]{
		Call: func(ctx context.Context, client *api_client.Client, req *subagentCall) ([]*v1.Subagent, error) {
			if err := client.Subagent().RemoveSubagent(ctx, req.AgentID, req.SubagentID); err != nil {
				return nil, err
			}
			return client.Subagent().ListSubagents(ctx, req.AgentID)
		},
		CmpOptions: []cmp.Option{ignoreMetadata()},
	}

	setup.RunServiceTests(t, []ServiceTestScenario[subagentCall, []*v1.Subagent]{
		{
			Name: "removes only the named edge",
			SeedDatabase: func(ctx context.Context, db *memory.Client, caller *memory.User) {
				agents := seedAgents(ctx, t, db, caller, 3)
				test.NewSubagentBuilder(t, db, agents[0], agents[1]).Build(ctx)
				test.NewSubagentBuilder(t, db, agents[0], agents[2]).Build(ctx)
			},
			Request: &subagentCall{AgentID: test.AgentID(), SubagentID: test.AgentID2()},
			Expected: ServiceTestExpectation[[]*v1.Subagent]{
				Response: []*v1.Subagent{
					{
						AgentID:          test.AgentID(),
						SubagentID:       test.AgentID3(),
						DelegationPrompt: "Delegate to agent-3",
						Subagent:         &v1.SubagentSummary{ID: test.AgentID3(), Name: "agent-3", IsActive: true},
					},
				},
			},
		},
		{
			Name: "missing relationship",
			SeedDatabase: func(ctx context.Context, db *memory.Client, caller *memory.User) {
				seedAgents(ctx, t, db, caller, 2)
			},
			Request: &subagentCall{AgentID: test.AgentID(), SubagentID: test.AgentID2()},
			Expected: ServiceTestExpectation[[]*v1.Subagent]{
				Error: fmt.Sprintf("not_found: subagent relationship not found: %s -> %s", test.AgentID(), test.AgentID2()),
			},
		},
		{
			Name: "invalid subagent id",
			SeedDatabase: func(ctx context.Context, db *memory.Client, caller *memory.User) {
				seedAgents(ctx, t, db, caller, 1)
			},
			Request: &subagentCall{AgentID: test.AgentID()},
			Expected: ServiceTestExpectation[[]*v1.Subagent]{
				Error: fmt.Sprintf("not_found: subagent relationship not found: %s -> %s", test.AgentID(), uuid.Nil),
			},
		},
	})
}

// TestDelegationScenario walks the reference graph through the REST API:
// 1->2, 2->3, 1->4 are accepted, 3->1 closes a cycle and 4->3 is a legal
// second path into 3.
func TestDelegationScenario(t *testing.T) {
	ctx := context.Background()
	server := NewTestServer(t, DefaultTestHandlerOptions(t))
	server.Start(ctx)
	defer server.Close()

	caller := test.NewUserBuilder(t, server.Options.DB).Build(ctx)
	agents := seedAgents(ctx, t, server.Options.DB, caller, 4)
	subagents := server.Client(t, caller).Subagent()

	add := func(parent, child int) error {
		_, err := subagents.AddSubagent(ctx, agents[parent-1].ID, &v1.AddSubagentRequest{SubagentID: agents[child-1].ID})
		return err
	}

	for _, edge := range [][2]int{{1, 2}, {2, 3}, {1, 4}} {
		if err := add(edge[0], edge[1]); err != nil {
			t.Fatalf("adding %d -> %d: %v", edge[0], edge[1], err)
		}
	}

	if err := add(3, 1); api_client.StatusCode(err) != 400 {
		t.Fatalf("3 -> 1 must be rejected as circular, got %v", err)
	}
	if err := add(4, 3); err != nil {
		t.Fatalf("4 -> 3 must be accepted: %v", err)
	}

	list, err := subagents.ListSubagents(ctx, agents[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	var got []uuid.UUID
	for _, s := range list {
		got = append(got, s.SubagentID)
	}
	want := []uuid.UUID{agents[1].ID, agents[3].ID}
	if diff := cmp.Diff(want, got, cmpopts.SortSlices(func(a, b uuid.UUID) bool { return a.String() < b.String() })); diff != "" {
		t.Errorf("subagents of 1 mismatch (-want +got):\n%s", diff)
	}
}
