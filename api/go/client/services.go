package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	v1 "github.com/deepagents/control/api/go/v1"
	"github.com/google/uuid"
)

//go:generate mockgen -destination=mocks/services_mock.go -package=mocks . AuthService,AgentService,SubagentService,ToolService,TemplateService,ExecutionService,HealthService

type AuthService interface {
	Register(ctx context.Context, req *v1.RegisterRequest) (*v1.User, error)
	Login(ctx context.Context, req *v1.LoginRequest) (*v1.Token, error)
	Me(ctx context.Context) (*v1.User, error)
}

type AgentService interface {
	CreateAgent(ctx context.Context, req *v1.CreateAgentRequest) (*v1.Agent, error)
	ListAgents(ctx context.Context, req *v1.ListAgentsRequest) ([]*v1.Agent, error)
	GetAgent(ctx context.Context, id uuid.UUID) (*v1.Agent, error)
	UpdateAgent(ctx context.Context, id uuid.UUID, req *v1.UpdateAgentRequest) (*v1.Agent, error)
	DeleteAgent(ctx context.Context, id uuid.UUID, permanent bool) error
	RestoreAgent(ctx context.Context, id uuid.UUID) (*v1.Agent, error)
}

type SubagentService interface {
	AddSubagent(ctx context.Context, agentID uuid.UUID, req *v1.AddSubagentRequest) (*v1.Subagent, error)
	ListSubagents(ctx context.Context, agentID uuid.UUID) ([]*v1.Subagent, error)
	UpdateSubagent(ctx context.Context, agentID, subagentID uuid.UUID, req *v1.UpdateSubagentRequest) (*v1.Subagent, error)
	RemoveSubagent(ctx context.Context, agentID, subagentID uuid.UUID) error
}

type ToolService interface {
	CreateTool(ctx context.Context, req *v1.CreateToolRequest) (*v1.Tool, error)
	ListTools(ctx context.Context, toolType string) ([]*v1.Tool, error)
	GetTool(ctx context.Context, id uuid.UUID) (*v1.Tool, error)
	UpdateTool(ctx context.Context, id uuid.UUID, req *v1.UpdateToolRequest) (*v1.Tool, error)
	DeleteTool(ctx context.Context, id uuid.UUID) error
}

type TemplateService interface {
	CreateTemplate(ctx context.Context, req *v1.CreateTemplateRequest) (*v1.Template, error)
	ListTemplates(ctx context.Context, category string) ([]*v1.Template, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*v1.Template, error)
	UpdateTemplate(ctx context.Context, id uuid.UUID, req *v1.UpdateTemplateRequest) (*v1.Template, error)
	DeleteTemplate(ctx context.Context, id uuid.UUID) error
	InstantiateTemplate(ctx context.Context, id uuid.UUID, req *v1.InstantiateTemplateRequest) (*v1.Agent, error)
}

type ExecutionService interface {
	CreateExecution(ctx context.Context, agentID uuid.UUID, req *v1.CreateExecutionRequest) (*v1.Execution, error)
	ListExecutions(ctx context.Context, req *v1.ListExecutionsRequest) ([]*v1.Execution, error)
	GetExecution(ctx context.Context, id uuid.UUID) (*v1.Execution, error)
	ListExecutionEvents(ctx context.Context, id uuid.UUID) ([]*v1.ExecutionEvent, error)
	CancelExecution(ctx context.Context, id uuid.UUID) (*v1.Execution, error)
}

type HealthService interface {
	Health(ctx context.Context) (*v1.Health, error)
}

type authClient struct{ t *transport }

func (c *authClient) Register(ctx context.Context, req *v1.RegisterRequest) (*v1.User, error) {
	var out v1.User
	if err := c.t.do(ctx, http.MethodPost, "/api/v1/auth/register", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *authClient) Login(ctx context.Context, req *v1.LoginRequest) (*v1.Token, error) {
	var out v1.Token
	if err := c.t.do(ctx, http.MethodPost, "/api/v1/auth/login", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *authClient) Me(ctx context.Context) (*v1.User, error) {
	var out v1.User
	if err := c.t.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type agentClient struct{ t *transport }

func agentPath(id uuid.UUID) string {
	return "/api/v1/agents/" + id.String()
}

func (c *agentClient) CreateAgent(ctx context.Context, req *v1.CreateAgentRequest) (*v1.Agent, error) {
	var out v1.Agent
	if err := c.t.do(ctx, http.MethodPost, "/api/v1/agents", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *agentClient) ListAgents(ctx context.Context, req *v1.ListAgentsRequest) ([]*v1.Agent, error) {
	if req == nil {
		req = &v1.ListAgentsRequest{}
	}
	q := pageQuery(req.Skip, req.Limit)
	if req.Name != "" {
		q.Set("name", req.Name)
	}
	if req.IsActive != nil {
		q.Set("is_active", strconv.FormatBool(*req.IsActive))
	}

	var out []*v1.Agent
	if err := c.t.do(ctx, http.MethodGet, "/api/v1/agents", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *agentClient) GetAgent(ctx context.Context, id uuid.UUID) (*v1.Agent, error) {
	var out v1.Agent
	if err := c.t.do(ctx, http.MethodGet, agentPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *agentClient) UpdateAgent(ctx context.Context, id uuid.UUID, req *v1.UpdateAgentRequest) (*v1.Agent, error) {
	var out v1.Agent
	if err := c.t.do(ctx, http.MethodPatch, agentPath(id), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *agentClient) DeleteAgent(ctx context.Context, id uuid.UUID, permanent bool) error {
	var q url.Values
	if permanent {
		q = url.Values{"permanent": {"true"}}
	}
	return c.t.do(ctx, http.MethodDelete, agentPath(id), q, nil, nil)
}

func (c *agentClient) RestoreAgent(ctx context.Context, id uuid.UUID) (*v1.Agent, error) {
	var out v1.Agent
	if err := c.t.do(ctx, http.MethodPost, agentPath(id)+"/restore", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type subagentClient struct{ t *transport }

func subagentPath(agentID uuid.UUID) string {
	return agentPath(agentID) + "/subagents"
}

func (c *subagentClient) AddSubagent(ctx context.Context, agentID uuid.UUID, req *v1.AddSubagentRequest) (*v1.Subagent, error) {
	var out v1.Subagent
	if err := c.t.do(ctx, http.MethodPost, subagentPath(agentID), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *subagentClient) ListSubagents(ctx context.Context, agentID uuid.UUID) ([]*v1.Subagent, error) {
	var out []*v1.Subagent
	if err := c.t.do(ctx, http.MethodGet, subagentPath(agentID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *subagentClient) UpdateSubagent(ctx context.Context, agentID, subagentID uuid.UUID, req *v1.UpdateSubagentRequest) (*v1.Subagent, error) {
	var out v1.Subagent
	if err := c.t.do(ctx, http.MethodPatch, subagentPath(agentID)+"/"+subagentID.String(), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *subagentClient) RemoveSubagent(ctx context.Context, agentID, subagentID uuid.UUID) error {
	return c.t.do(ctx, http.MethodDelete, subagentPath(agentID)+"/"+subagentID.String(), nil, nil, nil)
}

type toolClient struct{ t *transport }

func (c *toolClient) CreateTool(ctx context.Context, req *v1.CreateToolRequest) (*v1.Tool, error) {
	var out v1.Tool
	if err := c.t.do(ctx, http.MethodPost, "/api/v1/tools", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *toolClient) ListTools(ctx context.Context, toolType string) ([]*v1.Tool, error) {
	var q url.Values
	if toolType != "" {
		q = url.Values{"tool_type": {toolType}}
	}
	var out []*v1.Tool
	if err := c.t.do(ctx, http.MethodGet, "/api/v1/tools", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *toolClient) GetTool(ctx context.Context, id uuid.UUID) (*v1.Tool, error) {
	var out v1.Tool
	if err := c.t.do(ctx, http.MethodGet, "/api/v1/tools/"+id.String(), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *toolClient) UpdateTool(ctx context.Context, id uuid.UUID, req *v1.UpdateToolRequest) (*v1.Tool, error) {
	var out v1.Tool
	if err := c.t.do(ctx, http.MethodPatch, "/api/v1/tools/"+id.String(), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *toolClient) DeleteTool(ctx context.Context, id uuid.UUID) error {
	return c.t.do(ctx, http.MethodDelete, "/api/v1/tools/"+id.String(), nil, nil, nil)
}

type templateClient struct{ t *transport }

func (c *templateClient) CreateTemplate(ctx context.Context, req *v1.CreateTemplateRequest) (*v1.Template, error) {
	var out v1.Template
	if err := c.t.do(ctx, http.MethodPost, "/api/v1/templates", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *templateClient) ListTemplates(ctx context.Context, category string) ([]*v1.Template, error) {
	var q url.Values
	if category != "" {
		q = url.Values{"category": {category}}
	}
	var out []*v1.Template
	if err := c.t.do(ctx, http.MethodGet, "/api/v1/templates", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *templateClient) GetTemplate(ctx context.Context, id uuid.UUID) (*v1.Template, error) {
	var out v1.Template
	if err := c.t.do(ctx, http.MethodGet, "/api/v1/templates/"+id.String(), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *templateClient) UpdateTemplate(ctx context.Context, id uuid.UUID, req *v1.UpdateTemplateRequest) (*v1.Template, error) {
	var out v1.Template
	if err := c.t.do(ctx, http.MethodPatch, "/api/v1/templates/"+id.String(), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *templateClient) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return c.t.do(ctx, http.MethodDelete, "/api/v1/templates/"+id.String(), nil, nil, nil)
}

func (c *templateClient) InstantiateTemplate(ctx context.Context, id uuid.UUID, req *v1.InstantiateTemplateRequest) (*v1.Agent, error) {
	var out v1.Agent
	if err := c.t.do(ctx, http.MethodPost, "/api/v1/templates/"+id.String()+"/instantiate", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type executionClient struct{ t *transport }

func executionPath(id uuid.UUID) string {
	return "/api/v1/executions/" + id.String()
}

func (c *executionClient) CreateExecution(ctx context.Context, agentID uuid.UUID, req *v1.CreateExecutionRequest) (*v1.Execution, error) {
	var out v1.Execution
	if err := c.t.do(ctx, http.MethodPost, agentPath(agentID)+"/executions", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *executionClient) ListExecutions(ctx context.Context, req *v1.ListExecutionsRequest) ([]*v1.Execution, error) {
	if req == nil {
		req = &v1.ListExecutionsRequest{}
	}
	q := pageQuery(req.Skip, req.Limit)
	if req.AgentID != nil {
		q.Set("agent_id", req.AgentID.String())
	}
	if req.Status != "" {
		q.Set("status", req.Status)
	}

	var out []*v1.Execution
	if err := c.t.do(ctx, http.MethodGet, "/api/v1/executions", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *executionClient) GetExecution(ctx context.Context, id uuid.UUID) (*v1.Execution, error) {
	var out v1.Execution
	if err := c.t.do(ctx, http.MethodGet, executionPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *executionClient) ListExecutionEvents(ctx context.Context, id uuid.UUID) ([]*v1.ExecutionEvent, error) {
	var out []*v1.ExecutionEvent
	if err := c.t.do(ctx, http.MethodGet, executionPath(id)+"/events", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *executionClient) CancelExecution(ctx context.Context, id uuid.UUID) (*v1.Execution, error) {
	var out v1.Execution
	if err := c.t.do(ctx, http.MethodPost, executionPath(id)+"/cancel", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type healthClient struct{ t *transport }

func (c *healthClient) Health(ctx context.Context) (*v1.Health, error) {
	var out v1.Health
	if err := c.t.do(ctx, http.MethodGet, "/health", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
