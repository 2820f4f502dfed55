package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	v1 "github.com/deepagents/control/api/go/v1"
	"github.com/deepagents/control/api/go/client/mocks"
	"go.uber.org/mock/gomock"
)

// Error is a non-2xx response of the API.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	code := strings.ToLower(strings.ReplaceAll(http.StatusText(e.StatusCode), " ", "_"))
	return fmt.Sprintf("%s: %s", code, e.Detail)
}

// StatusCode returns the HTTP status of an API error, or 0 for other errors.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

type Client struct {
	auth      AuthService
	agent     AgentService
	subagent  SubagentService
	tool      ToolService
	template  TemplateService
	execution ExecutionService
	health    HealthService
}

type Option func(*transport)

func WithToken(token string) Option {
	return func(t *transport) {
		t.token = token
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(t *transport) {
		t.http = c
	}
}

func NewClient(endpointContext EndpointContext, opts ...Option) *Client {
	httpClient := &http.Client{}

	baseURL := endpointContext.Address
	if endpointContext.Kind == "unix" {
		httpClient.Transport = &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, "unix", endpointContext.Address)
			},
		}
		baseURL = "http://unix"
	}

	t := &transport{http: httpClient, baseURL: strings.TrimSuffix(baseURL, "/")}
	for _, opt := range opts {
		opt(t)
	}

	return &Client{
		auth:      &authClient{t},
		agent:     &agentClient{t},
		subagent:  &subagentClient{t},
		tool:      &toolClient{t},
		template:  &templateClient{t},
		execution: &executionClient{t},
		health:    &healthClient{t},
	}
}

func (c *Client) Auth() AuthService {
	return c.auth
}

func (c *Client) Agent() AgentService {
	return c.agent
}

func (c *Client) Subagent() SubagentService {
	return c.subagent
}

func (c *Client) Tool() ToolService {
	return c.tool
}

func (c *Client) Template() TemplateService {
	return c.template
}

func (c *Client) Execution() ExecutionService {
	return c.execution
}

func (c *Client) Health() HealthService {
	return c.health
}

type transport struct {
	http    *http.Client
	baseURL string
	token   string
}

// do sends body as JSON and decodes the response into out when out is not
// nil.
func (t *transport) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := t.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e v1.ErrorResponse
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if json.Unmarshal(data, &e) != nil || e.Detail == "" {
			e.Detail = strings.TrimSpace(string(data))
		}
		return &Error{StatusCode: resp.StatusCode, Detail: e.Detail}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func pageQuery(skip, limit int) url.Values {
	q := url.Values{}
	if skip > 0 {
		q.Set("skip", fmt.Sprint(skip))
	}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	return q
}

type MockClient struct {
	Auth      *mocks.MockAuthService
	Agent     *mocks.MockAgentService
	Subagent  *mocks.MockSubagentService
	Tool      *mocks.MockToolService
	Template  *mocks.MockTemplateService
	Execution *mocks.MockExecutionService
	Health    *mocks.MockHealthService
}

func NewMockClient(ctrl *gomock.Controller) *MockClient {
	return &MockClient{
		Auth:      mocks.NewMockAuthService(ctrl),
		Agent:     mocks.NewMockAgentService(ctrl),
		Subagent:  mocks.NewMockSubagentService(ctrl),
		Tool:      mocks.NewMockToolService(ctrl),
		Template:  mocks.NewMockTemplateService(ctrl),
		Execution: mocks.NewMockExecutionService(ctrl),
		Health:    mocks.NewMockHealthService(ctrl),
	}
}

func (c *MockClient) Client() *Client {
	return &Client{
		auth:      c.Auth,
		agent:     c.Agent,
		subagent:  c.Subagent,
		tool:      c.Tool,
		template:  c.Template,
		execution: c.Execution,
		health:    c.Health,
	}
}

type EndpointContexts struct {
	CurrentContext string                     `yaml:"current"`
	Contexts       map[string]EndpointContext `yaml:"contexts"`
}

func (c *EndpointContexts) Validate() error {
	for name, context := range c.Contexts {
		if err := context.Validate(); err != nil {
			return fmt.Errorf("invalid context '%s': %w", name, err)
		}
	}

	if c.CurrentContext != "" {
		if _, ok := c.Contexts[c.CurrentContext]; !ok {
			return fmt.Errorf("current context %s not found", c.CurrentContext)
		}
	}

	return nil
}

func (c *EndpointContexts) Current() (EndpointContext, bool) {
	context, ok := c.Contexts[c.CurrentContext]
	return context, ok
}

func (c *EndpointContexts) SetCurrent(contextName string) error {
	if contextName == "" {
		return fmt.Errorf("context name is required")
	}

	if _, ok := c.Contexts[contextName]; !ok {
		return fmt.Errorf("context %s not found", contextName)
	}

	c.CurrentContext = contextName
	return nil
}

// EndpointContext names a server. Its bearer token is kept in the OS keyring
// under the context name, not in this struct.
type EndpointContext struct {
	Address  string `yaml:"address"`
	Kind     string `yaml:"kind"`
	Username string `yaml:"username,omitempty"`
}

func (c *EndpointContext) Validate() error {
	if c.Kind != "unix" && c.Kind != "http" {
		return fmt.Errorf("invalid kind: %s", c.Kind)
	}

	if c.Kind == "unix" {
		if !filepath.IsAbs(c.Address) {
			return fmt.Errorf("unix address must be an absolute path: %s", c.Address)
		}
	}

	if c.Kind == "http" {
		u, err := url.Parse(c.Address)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid http address: %s", c.Address)
		}
	}

	return nil
}

func Ptr[T any](v T) *T {
	return &v
}
