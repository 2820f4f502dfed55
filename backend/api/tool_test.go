package api

import (
	"context"
	"encoding/json"
	"testing"

	api_client "github.com/deepagents/control/api/go/client"
	v1 "github.com/deepagents/control/api/go/v1"
	"github.com/deepagents/control/backend/memory"
	"github.com/deepagents/control/backend/memory/test"
	"github.com/deepagents/control/backend/secret"
	"github.com/google/go-cmp/cmp"
)

func TestCreateTool(t *testing.T) {
	setup := ServiceTestSetup[v1.CreateToolRequest, *v1.Tool]{
		Call: func(ctx context.Context, client *api_client.Client, req *v1.CreateToolRequest) (*v1.Tool, error) {
			return client.Tool().CreateTool(ctx, req)
		},
		CmpOptions: []cmp.Option{ignoreMetadata()},
	}

	setup.RunServiceTests(t, []ServiceTestScenario[v1.CreateToolRequest, *v1.Tool]{
		{
			Name: "builtin tool",
			Request: &v1.CreateToolRequest{
				Name:     "read_file",
				ToolType: "builtin",
				Config:   map[string]any{"allowed_paths": []any{"/workspace/**"}},
			},
			Expected: ServiceTestExpectation[*v1.Tool]{
				Response: &v1.Tool{
					Name:     "read_file",
					ToolType: "builtin",
					Config:   map[string]any{"allowed_paths": []any{"/workspace/**"}},
					OwnerID:  test.UserID(),
				},
			},
		},
		{
			Name: "api tool with credentials",
			Request: &v1.CreateToolRequest{
				Name:        "issues",
				ToolType:    "api",
				Config:      map[string]any{"url": "https://tracker.example.com/api", "method": "post"},
				Credentials: map[string]any{"token": "s3cret"},
				IsPublic:    true,
			},
			Expected: ServiceTestExpectation[*v1.Tool]{
				Response: &v1.Tool{
					Name:           "issues",
					ToolType:       "api",
					Config:         map[string]any{"url": "https://tracker.example.com/api", "method": "post"},
					HasCredentials: true,
					IsPublic:       true,
					OwnerID:        test.UserID(),
				},
			},
		},
		{
			Name: "function tool",
			Request: &v1.CreateToolRequest{
				Name:     "shout",
				ToolType: "function",
				Config:   map[string]any{"source": "function handler(input) { return input.toUpperCase() }"},
			},
			Expected: ServiceTestExpectation[*v1.Tool]{
				Response: &v1.Tool{
					Name:     "shout",
					ToolType: "function",
					Config:   map[string]any{"source": "function handler(input) { return input.toUpperCase() }"},
					OwnerID:  test.UserID(),
				},
			},
		},
		{
			Name:    "unknown type",
			Request: &v1.CreateToolRequest{Name: "magic", ToolType: "spell"},
			Expected: ServiceTestExpectation[*v1.Tool]{
				Error: `unprocessable_entity: unknown tool type "spell"`,
			},
		},
		{
			Name:    "api tool without url",
			Request: &v1.CreateToolRequest{Name: "issues", ToolType: "api"},
			Expected: ServiceTestExpectation[*v1.Tool]{
				Error: "unprocessable_entity: invalid tool config: url must be an absolute http(s) URL",
			},
		},
		{
			Name:    "bad glob",
			Request: &v1.CreateToolRequest{Name: "read_file", ToolType: "builtin", Config: map[string]any{"allowed_paths": []any{"/workspace/[ab"}}},
			Expected: ServiceTestExpectation[*v1.Tool]{
				Error: "unprocessable_entity: invalid tool config: invalid glob pattern /workspace/[ab",
			},
		},
	})
}

func TestToolCredentialsAreSealed(t *testing.T) {
	ctx := context.Background()
	opts := DefaultTestHandlerOptions(t)
	server := NewTestServer(t, opts)
	server.Start(ctx)
	defer server.Close()

	caller := test.NewUserBuilder(t, opts.DB).Build(ctx)
	tools := server.Client(t, caller).Tool()

	created, err := tools.CreateTool(ctx, &v1.CreateToolRequest{
		Name:        "issues",
		ToolType:    "api",
		Config:      map[string]any{"url": "https://tracker.example.com/api"},
		Credentials: map[string]any{"token": "s3cret"},
	})
	if err != nil {
		t.Fatalf("CreateTool: %v", err)
	}

	stored, err := opts.DB.Tool.Get(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if json.Valid(stored.Credentials) {
		t.Fatal("credentials are stored in plain text")
	}
	plaintext, err := opts.Encryption.Decrypt(stored.Credentials, secret.ToolCredentials(created.ID))
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if string(plaintext) != `{"token":"s3cret"}` {
		t.Errorf("decrypted credentials = %s", plaintext)
	}

	updated, err := tools.UpdateTool(ctx, created.ID, &v1.UpdateToolRequest{Credentials: &map[string]any{}})
	if err != nil {
		t.Fatalf("UpdateTool: %v", err)
	}
	if updated.HasCredentials {
		t.Error("an empty credentials object must clear them")
	}
}

func TestToolVisibility(t *testing.T) {
	type call struct {
		Op   string
		Name string
	}
	setup := ServiceTestSetup[call, []string]{
		Call: func(ctx context.Context, client *api_client.Client, req *call) ([]string, error) {
			switch req.Op {
			case "rename":
				if _, err := client.Tool().UpdateTool(ctx, test.ToolID(), &v1.UpdateToolRequest{Name: &req.Name}); err != nil {
					return nil, err
				}
			case "delete":
				if err := client.Tool().DeleteTool(ctx, test.ToolID()); err != nil {
					return nil, err
				}
			case "get":
				if _, err := client.Tool().GetTool(ctx, test.ToolID()); err != nil {
					return nil, err
				}
			}
			tools, err := client.Tool().ListTools(ctx, "")
			if err != nil {
				return nil, err
			}
			names := make([]string, len(tools))
			for i, tool := range tools {
				names[i] = tool.Name
			}
			return names, nil
		},
	}

	publicTool := func(ctx context.Context, db *memory.Client, caller *memory.User) {
		other := test.NewUserBuilder(t, db).WithID(test.UserID2()).WithUsername("grace").Build(ctx)
		test.NewToolBuilder(t, db, other).WithPublic(true).Build(ctx)
		test.NewToolBuilder(t, db, other).WithID(test.ToolID2()).WithName("private").Build(ctx)
	}

	setup.RunServiceTests(t, []ServiceTestScenario[call, []string]{
		{
			Name:         "lists own and public tools",
			SeedDatabase: publicTool,
			Request:      &call{Op: "get"},
			Expected:     ServiceTestExpectation[[]string]{Response: []string{"web_search"}},
		},
		{
			Name:         "public tools are read only",
			SeedDatabase: publicTool,
			Request:      &call{Op: "rename", Name: "mine"},
			Expected: ServiceTestExpectation[[]string]{
				Error: "forbidden: not enough permissions",
			},
		},
		{
			Name:         "public tools cannot be deleted by others",
			SeedDatabase: publicTool,
			Request:      &call{Op: "delete"},
			Expected: ServiceTestExpectation[[]string]{
				Error: "forbidden: not enough permissions",
			},
		},
		{
			Name: "owner deletes",
			SeedDatabase: func(ctx context.Context, db *memory.Client, caller *memory.User) {
				test.NewToolBuilder(t, db, caller).Build(ctx)
				test.NewToolBuilder(t, db, caller).WithID(test.ToolID2()).WithName("calculator").Build(ctx)
			},
			Request:  &call{Op: "delete"},
			Expected: ServiceTestExpectation[[]string]{Response: []string{"calculator"}},
		},
		{
			Name: "private tools of others are hidden",
			SeedDatabase: func(ctx context.Context, db *memory.Client, caller *memory.User) {
				other := test.NewUserBuilder(t, db).WithID(test.UserID2()).WithUsername("grace").Build(ctx)
				test.NewToolBuilder(t, db, other).Build(ctx)
			},
			Request: &call{Op: "get"},
			Expected: ServiceTestExpectation[[]string]{
				Error: "not_found: tool not found",
			},
		},
	})
}
