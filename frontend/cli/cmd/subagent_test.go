package cmd

import (
	"net/http"
	"testing"

	api_client "github.com/deepagents/control/api/go/client"
	v1 "github.com/deepagents/control/api/go/v1"
	"github.com/google/uuid"
	"go.uber.org/mock/gomock"
)

func TestSubagentAdd(t *testing.T) {
	setup := &TestSetup{}

	planner := testAgent{ID: uuid.New(), Name: "planner"}
	researcher := testAgent{ID: uuid.New(), Name: "researcher"}

	setup.RunTests(t, []TestScenario{
		{
			Name:    "success by name",
			Command: []string{"subagent", "add", "planner", "researcher", "--prompt", "Use for literature searches", "--priority", "1"},
			SetupMocks: func(mockClient *api_client.MockClient) {
				setupAgentListMock(mockClient, planner, researcher)
				setupAgentListMock(mockClient, planner, researcher)
				mockClient.Subagent.EXPECT().AddSubagent(gomock.Any(), planner.ID, &v1.AddSubagentRequest{
					SubagentID:       researcher.ID,
					DelegationPrompt: "Use for literature searches",
					Priority:         1,
				}).Return(&v1.Subagent{ID: 7, AgentID: planner.ID, SubagentID: researcher.ID, Priority: 1}, nil)
			},
			Expected: TestExpectation{
				Stdout: api_client.Ptr("planner now delegates to researcher (priority 1)\n"),
			},
		},
		{
			Name:    "success by id",
			Command: []string{"sub", "add", planner.ID.String(), researcher.ID.String()},
			SetupMocks: func(mockClient *api_client.MockClient) {
				mockClient.Subagent.EXPECT().AddSubagent(gomock.Any(), planner.ID, &v1.AddSubagentRequest{
					SubagentID: researcher.ID,
				}).Return(&v1.Subagent{ID: 7, AgentID: planner.ID, SubagentID: researcher.ID}, nil)
			},
			Expected: TestExpectation{
				Stdout: api_client.Ptr(planner.ID.String() + " now delegates to " + researcher.ID.String() + " (priority 0)\n"),
			},
		},
		{
			Name:    "error - cycle rejected by the server",
			Command: []string{"subagent", "add", researcher.ID.String(), planner.ID.String()},
			SetupMocks: func(mockClient *api_client.MockClient) {
				mockClient.Subagent.EXPECT().AddSubagent(gomock.Any(), researcher.ID, gomock.Any()).Return(nil, &api_client.Error{
					StatusCode: http.StatusBadRequest,
					Detail:     "circular delegation: " + planner.ID.String() + " already reaches " + researcher.ID.String(),
				})
			},
			Expected: TestExpectation{
				Error: "This delegation would create a cycle\n" +
					"\nTry:\n" +
					"  1. Inspect the existing delegations: deepagents subagent list <agent>\n" +
					"  2. Remove the edge that closes the loop before adding this one\n" +
					"\nDetails: bad_request: circular delegation: " + planner.ID.String() + " already reaches " + researcher.ID.String() + "\n",
			},
		},
		{
			Name:    "error - unknown subagent",
			Command: []string{"subagent", "add", planner.ID.String(), "writer"},
			SetupMocks: func(mockClient *api_client.MockClient) {
				setupAgentListMock(mockClient, planner, researcher)
			},
			Expected: TestExpectation{
				Error: "agent writer not found",
			},
		},
		{
			Name:    "error - needs two agents",
			Command: []string{"subagent", "add", "planner"},
			Expected: TestExpectation{
				Error: "accepts 2 arg(s), received 1",
			},
		},
	})
}

func TestSubagentList(t *testing.T) {
	setup := &TestSetup{}

	planner := testAgent{ID: uuid.New(), Name: "planner"}
	researcherID := uuid.New()
	writerID := uuid.New()

	setup.RunTests(t, []TestScenario{
		{
			Name:    "success",
			Command: []string{"subagent", "list", "planner", "--wide"},
			SetupMocks: func(mockClient *api_client.MockClient) {
				setupAgentListMock(mockClient, planner)
				mockClient.Subagent.EXPECT().ListSubagents(gomock.Any(), planner.ID).Return([]*v1.Subagent{
					{
						ID:               1,
						SubagentID:       researcherID,
						DelegationPrompt: "Delegate to researcher",
						Priority:         0,
						Subagent:         &v1.SubagentSummary{ID: researcherID, Name: "researcher", IsActive: true},
					},
					{
						ID:         2,
						SubagentID: writerID,
						Priority:   5,
						Subagent:   &v1.SubagentSummary{ID: writerID, Name: "writer"},
					},
				}, nil)
			},
			Expected: TestExpectation{
				DisplayedObjects: []*SubagentDisplay{
					{ID: 1, Priority: 0, Subagent: "researcher", Active: true, SubagentID: researcherID.String(), Prompt: "Delegate to researcher"},
					{ID: 2, Priority: 5, Subagent: "writer", SubagentID: writerID.String()},
				},
				DisplayFormat: &RenderOptions{Format: OutputFormatTable, Wide: true},
			},
		},
		{
			Name:    "success without subagents",
			Command: []string{"subagent", "ls", planner.ID.String()},
			SetupMocks: func(mockClient *api_client.MockClient) {
				mockClient.Subagent.EXPECT().ListSubagents(gomock.Any(), planner.ID).Return([]*v1.Subagent{}, nil)
			},
			Expected: TestExpectation{
				DisplayedObjects: []*SubagentDisplay{},
			},
		},
	})
}

func TestSubagentUpdate(t *testing.T) {
	setup := &TestSetup{}

	parentID := uuid.New()
	childID := uuid.New()

	setup.RunTests(t, []TestScenario{
		{
			Name:    "success priority only",
			Command: []string{"subagent", "update", parentID.String(), childID.String(), "--priority", "0"},
			SetupMocks: func(mockClient *api_client.MockClient) {
				mockClient.Subagent.EXPECT().UpdateSubagent(gomock.Any(), parentID, childID, &v1.UpdateSubagentRequest{
					Priority: api_client.Ptr(0),
				}).Return(&v1.Subagent{Priority: 0}, nil)
			},
			Expected: TestExpectation{
				Stdout: api_client.Ptr("updated " + parentID.String() + " → " + childID.String() + " (priority 0)\n"),
			},
		},
		{
			Name:    "success clears the prompt",
			Command: []string{"subagent", "update", parentID.String(), childID.String(), "--prompt", ""},
			SetupMocks: func(mockClient *api_client.MockClient) {
				mockClient.Subagent.EXPECT().UpdateSubagent(gomock.Any(), parentID, childID, &v1.UpdateSubagentRequest{
					DelegationPrompt: api_client.Ptr(""),
				}).Return(&v1.Subagent{Priority: 3}, nil)
			},
			Expected: TestExpectation{
				Stdout: api_client.Ptr("updated " + parentID.String() + " → " + childID.String() + " (priority 3)\n"),
			},
		},
		{
			Name:    "error - nothing to update",
			Command: []string{"subagent", "update", parentID.String(), childID.String()},
			Expected: TestExpectation{
				Error: "nothing to update, set --prompt or --priority",
			},
		},
		{
			Name:    "error - relationship not found",
			Command: []string{"subagent", "update", parentID.String(), childID.String(), "--priority", "2"},
			SetupMocks: func(mockClient *api_client.MockClient) {
				mockClient.Subagent.EXPECT().UpdateSubagent(gomock.Any(), parentID, childID, gomock.Any()).Return(nil, &api_client.Error{
					StatusCode: http.StatusNotFound,
					Detail:     "subagent relationship not found",
				})
			},
			Expected: TestExpectation{
				Error: "not_found: subagent relationship not found",
			},
		},
	})
}

func TestSubagentRemove(t *testing.T) {
	setup := &TestSetup{}

	planner := testAgent{ID: uuid.New(), Name: "planner"}
	researcher := testAgent{ID: uuid.New(), Name: "researcher"}

	setup.RunTests(t, []TestScenario{
		{
			Name:    "success with force flag",
			Command: []string{"subagent", "rm", "--force", planner.ID.String(), researcher.ID.String()},
			SetupMocks: func(mockClient *api_client.MockClient) {
				mockClient.Subagent.EXPECT().RemoveSubagent(gomock.Any(), planner.ID, researcher.ID).Return(nil)
			},
		},
		{
			Name:    "success confirmed",
			Command: []string{"subagent", "remove", "planner", "researcher"},
			Stdin:   "yes\n",
			SetupMocks: func(mockClient *api_client.MockClient) {
				setupAgentListMock(mockClient, planner, researcher)
				setupAgentListMock(mockClient, planner, researcher)
				mockClient.Subagent.EXPECT().RemoveSubagent(gomock.Any(), planner.ID, researcher.ID).Return(nil)
			},
			Expected: TestExpectation{
				Stdout: api_client.Ptr("Are you sure you want to remove subagent researcher from planner? (y/n): "),
			},
		},
		{
			Name:    "declined",
			Command: []string{"subagent", "remove", "planner", "researcher"},
			Stdin:   "n\n",
			Expected: TestExpectation{
				Stdout: api_client.Ptr("Are you sure you want to remove subagent researcher from planner? (y/n): "),
			},
		},
	})
}
