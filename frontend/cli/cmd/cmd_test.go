package cmd

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	api_client "github.com/deepagents/control/api/go/client"
	v1 "github.com/deepagents/control/api/go/v1"
	"github.com/deepagents/control/backend/secret"
	"github.com/deepagents/control/shared/mocks"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/mock/gomock"
)

type MockFormatter struct {
	DisplayedObjects any
	DisplayFormat    *RenderOptions
}

func (m *MockFormatter) Render(_ io.Writer, resources any, options *RenderOptions) error {
	m.DisplayedObjects = resources
	m.DisplayFormat = options
	return nil
}

var _ OutputRenderer = (*MockFormatter)(nil)

type memoryTokenStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func newMemoryTokenStore(tokens map[string]string) *memoryTokenStore {
	store := &memoryTokenStore{tokens: map[string]string{}}
	for k, v := range tokens {
		store.tokens[k] = v
	}
	return store
}

func (s *memoryTokenStore) Get(contextName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token, ok := s.tokens[contextName]
	if !ok {
		return "", secret.ErrSecretNotFound
	}
	return token, nil
}

func (s *memoryTokenStore) Set(contextName, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[contextName] = token
	return nil
}

func (s *memoryTokenStore) Delete(contextName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, contextName)
	return nil
}

var _ TokenStore = (*memoryTokenStore)(nil)

const testConfigDir = "/home/ada/.config/deepagents"

type TestSetup struct {
	CmpOptions []cmp.Option
}

type TestScenario struct {
	Name            string
	Command         []string
	Stdin           string
	SetupMocks      func(mockClient *api_client.MockClient)
	SetupFileSystem func(fs *afero.Afero)
	SetupUserInfo   func(userInfo *mocks.MockUserInfo)
	Tokens          map[string]string
	// Verify inspects the state left behind by the command.
	Verify   func(t *testing.T, fs *afero.Afero, tokens *memoryTokenStore)
	Expected TestExpectation
}

type TestExpectation struct {
	Stdout           *string
	Error            string
	DisplayedObjects any
	DisplayFormat    *RenderOptions
}

func (s *TestSetup) RunTests(t *testing.T, scenarios []TestScenario) {
	if len(scenarios) == 0 {
		t.Fatalf("no scenarios provided")
	}

	for _, scenario := range scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			mockClient := api_client.NewMockClient(ctrl)
			if scenario.SetupMocks != nil {
				scenario.SetupMocks(mockClient)
			}

			userInfo := mocks.NewMockUserInfo(ctrl)
			userInfo.EXPECT().DeepagentsConfigDir().Return(testConfigDir, nil).AnyTimes()
			if scenario.SetupUserInfo != nil {
				scenario.SetupUserInfo(userInfo)
			}

			fs := &afero.Afero{Fs: afero.NewMemMapFs()}
			if scenario.SetupFileSystem != nil {
				scenario.SetupFileSystem(fs)
			}

			tokens := newMemoryTokenStore(scenario.Tokens)

			testCmd := NewRootCmd()

			var stdin bytes.Buffer
			stdin.WriteString(scenario.Stdin)
			testCmd.SetIn(&stdin)

			var stdout bytes.Buffer
			testCmd.SetOut(&stdout)
			testCmd.SetErr(io.Discard)

			mockFormatter := &MockFormatter{}
			ctx := context.Background()
			ctx = context.WithValue(ctx, ContextKeyAPIClient, mockClient.Client())
			ctx = context.WithValue(ctx, ContextKeyClientFactory, ClientFactory(func(api_client.EndpointContext, string) *api_client.Client {
				return mockClient.Client()
			}))
			ctx = context.WithValue(ctx, ContextKeyFileSystem, fs)
			ctx = context.WithValue(ctx, ContextKeyOutputRenderer, mockFormatter)
			ctx = context.WithValue(ctx, ContextKeyUserInfo, userInfo)
			ctx = context.WithValue(ctx, ContextKeyTokenStore, TokenStore(tokens))

			testCmd.SetArgs(scenario.Command)

			var actual TestExpectation
			err := testCmd.ExecuteContext(ctx)
			if err != nil {
				actual.Error = err.Error()
			}

			actual.DisplayedObjects = mockFormatter.DisplayedObjects
			if scenario.Expected.DisplayFormat != nil {
				actual.DisplayFormat = mockFormatter.DisplayFormat
			}

			if scenario.Expected.Stdout != nil {
				actual.Stdout = api_client.Ptr(stdout.String())
			}

			if diff := cmp.Diff(scenario.Expected, actual, s.CmpOptions...); diff != "" {
				t.Errorf("%s() mismatch (-want +got):\n%s", scenario.Name, diff)
			}

			if scenario.Verify != nil {
				scenario.Verify(t, fs, tokens)
			}
		})
	}
}

type testAgent struct {
	ID   uuid.UUID
	Name string
}

// setupAgentListMock answers the name lookup of getAgentID with agents.
func setupAgentListMock(mockClient *api_client.MockClient, agents ...testAgent) {
	result := make([]*v1.Agent, len(agents))
	for i, agent := range agents {
		result[i] = &v1.Agent{ID: agent.ID, Name: agent.Name, IsActive: true}
	}

	mockClient.Agent.EXPECT().ListAgents(
		gomock.Any(),
		&v1.ListAgentsRequest{Limit: v1.MaxLimit},
	).Return(result, nil)
}
