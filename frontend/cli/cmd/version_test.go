package cmd

import (
	"testing"

	api_client "github.com/deepagents/control/api/go/client"
	v1 "github.com/deepagents/control/api/go/v1"
	"go.uber.org/mock/gomock"
)

func TestVersion(t *testing.T) {
	setup := &TestSetup{}

	setup.RunTests(t, []TestScenario{
		{
			Name:    "client only",
			Command: []string{"version"},
			Expected: TestExpectation{
				Stdout: api_client.Ptr("deepagents version " + Version + "\n"),
			},
		},
		{
			Name:    "with matching server",
			Command: []string{"version", "--server"},
			SetupMocks: func(mockClient *api_client.MockClient) {
				mockClient.Health.EXPECT().Health(gomock.Any()).Return(&v1.Health{Status: "ok", Version: "0.4.2"}, nil)
			},
			Expected: TestExpectation{
				Stdout: api_client.Ptr("deepagents version " + Version + "\nserver version 0.4.2\n"),
			},
		},
		{
			Name:    "with newer major server",
			Command: []string{"version", "--server"},
			SetupMocks: func(mockClient *api_client.MockClient) {
				mockClient.Health.EXPECT().Health(gomock.Any()).Return(&v1.Health{Status: "ok", Version: "v2.0.0"}, nil)
			},
			Expected: TestExpectation{
				Stdout: api_client.Ptr("deepagents version " + Version + "\nserver version v2.0.0\nclient and server major versions differ, some commands may not work\n"),
			},
		},
	})
}

func TestVersionDevelopmentBuild(t *testing.T) {
	original := Version
	Version = "dev"
	t.Cleanup(func() { Version = original })

	setup := &TestSetup{}
	setup.RunTests(t, []TestScenario{
		{
			Name:    "unparsable version",
			Command: []string{"version"},
			Expected: TestExpectation{
				Stdout: api_client.Ptr("deepagents version dev (development build)\n"),
			},
		},
	})
}
