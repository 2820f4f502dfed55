package execution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/deepagents/control/backend/delegation"
	"github.com/deepagents/control/backend/event"
	"github.com/deepagents/control/backend/memory"
	"github.com/deepagents/control/backend/memory/execution"
	"github.com/deepagents/control/backend/memory/schema/types"
	memory_tool "github.com/deepagents/control/backend/memory/tool"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"k8s.io/client-go/util/workqueue"
)

const tracerName = "github.com/deepagents/control/backend/execution"

var errCancelRequested = errors.New("execution cancelled")

// Runner executes pending executions on a pool of workers fed by a work
// queue.
type Runner struct {
	db          *memory.Client
	delegations *delegation.Service
	framework   Framework
	bus         *event.Bus
	queue       workqueue.TypedDelayingInterface[uuid.UUID]
	logger      *slog.Logger
	tracer      trace.Tracer

	workers      int
	timeout      time.Duration
	costPer1K    decimal.Decimal
	shutdownWait time.Duration

	mu      sync.Mutex
	running map[uuid.UUID]context.CancelCauseFunc
	wg      sync.WaitGroup

	finished *prometheus.CounterVec
}

type RunnerOptions struct {
	Workers         int
	Timeout         time.Duration
	CostPer1KTokens decimal.Decimal
	Registerer      prometheus.Registerer
	MetricsProvider workqueue.MetricsProvider
	Logger          *slog.Logger
}

func NewRunner(db *memory.Client, delegations *delegation.Service, framework Framework, bus *event.Bus, opts RunnerOptions) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	queue := workqueue.NewTypedDelayingQueueWithConfig(workqueue.TypedDelayingQueueConfig[uuid.UUID]{
		Name:            "executions",
		MetricsProvider: opts.MetricsProvider,
	})

	return &Runner{
		db:           db,
		delegations:  delegations,
		framework:    framework,
		bus:          bus,
		queue:        queue,
		logger:       opts.Logger,
		tracer:       otel.Tracer(tracerName),
		workers:      opts.Workers,
		timeout:      opts.Timeout,
		costPer1K:    opts.CostPer1KTokens,
		shutdownWait: 5 * time.Second,
		running:      make(map[uuid.UUID]context.CancelCauseFunc),
		finished: promauto.With(opts.Registerer).NewCounterVec(prometheus.CounterOpts{
			Name: "executions_total",
			Help: "Finished executions by final status.",
		}, []string{"status"}),
	}
}

// Run recovers executions left over by a previous process, then processes
// the queue until ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.Recover(ctx); err != nil {
		return fmt.Errorf("recovering executions: %w", err)
	}

	for range r.workers {
		r.wg.Add(1)
		go r.worker(ctx)
	}

	created := event.Subscribe(r.bus, func(_ context.Context, e event.ExecutionCreated) {
		r.queue.Add(e.ExecutionID)
	}, nil)
	cancelled := event.Subscribe(r.bus, func(_ context.Context, e event.ExecutionCancelled) {
		r.cancel(e.ExecutionID)
	}, nil)

	<-ctx.Done()
	created.Unsubscribe()
	cancelled.Unsubscribe()

	r.queue.ShutDownWithDrain()

	stop := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(stop)
	}()

	select {
	case <-stop:
		return nil
	case <-time.After(r.shutdownWait):
		return errors.New("timed out waiting for workers")
	}
}

// Recover fails executions that were running when the previous process
// stopped and requeues pending ones.
func (r *Runner) Recover(ctx context.Context) error {
	stale, err := r.db.Execution.Query().Where(execution.Status(types.ExecutionStatusRunning)).All(ctx)
	if err != nil {
		return err
	}
	for _, e := range stale {
		if err := r.finish(ctx, e.ID, types.ExecutionStatusFailed, nil, "interrupted by server restart"); err != nil {
			return err
		}
	}

	pending, err := r.db.Execution.Query().Where(execution.Status(types.ExecutionStatusPending)).OrderByOldest().All(ctx)
	if err != nil {
		return err
	}
	for _, e := range pending {
		r.queue.Add(e.ID)
	}

	if len(stale) > 0 || len(pending) > 0 {
		r.logger.InfoContext(ctx, "recovered executions", "failed", len(stale), "requeued", len(pending))
	}
	return nil
}

// Enqueue schedules an execution. Unknown or non-pending executions are
// skipped by the workers.
func (r *Runner) Enqueue(id uuid.UUID) {
	r.queue.Add(id)
}

func (r *Runner) worker(ctx context.Context) {
	defer r.wg.Done()

	for {
		id, shutdown := r.queue.Get()
		if shutdown {
			return
		}

		if err := r.process(ctx, id); err != nil {
			r.logger.ErrorContext(ctx, "execution could not be processed", "error", err, "execution_id", id)
		}
		r.queue.Done(id)
	}
}

func (r *Runner) process(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := r.tracer.Start(ctx, "execution.run", trace.WithAttributes(attribute.String("execution.id", id.String())))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	runCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	runCtx, cancelTimeout := context.WithTimeout(runCtx, r.timeout)
	defer cancelTimeout()

	// Registered before the transition so a cancel request that races the
	// start is not lost.
	r.mu.Lock()
	r.running[id] = cancel
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		delete(r.running, id)
		r.mu.Unlock()
	}()

	started, err := r.db.Execution.Transition(ctx,
		r.db.Execution.UpdateOneID(id).SetStatus(types.ExecutionStatusRunning).SetStartedAt(time.Now()),
		types.ExecutionStatusPending,
	)
	if err != nil {
		return err
	}
	if !started {
		return nil
	}

	// The outcome is recorded even when the runner is shutting down.
	finishCtx := context.WithoutCancel(ctx)

	req, err := r.request(ctx, id)
	if err != nil {
		return r.finish(finishCtx, id, types.ExecutionStatusFailed, nil, err.Error())
	}

	result, runErr := r.framework.Run(runCtx, *req)
	switch {
	case runErr == nil:
		return r.finish(finishCtx, id, types.ExecutionStatusCompleted, result, "")
	case errors.Is(context.Cause(runCtx), errCancelRequested):
		return r.finish(finishCtx, id, types.ExecutionStatusCancelled, nil, "cancelled by user")
	case errors.Is(runErr, context.DeadlineExceeded):
		return r.finish(finishCtx, id, types.ExecutionStatusFailed, nil, fmt.Sprintf("timed out after %s", r.timeout))
	default:
		return r.finish(finishCtx, id, types.ExecutionStatusFailed, nil, runErr.Error())
	}
}

func (r *Runner) request(ctx context.Context, id uuid.UUID) (*Request, error) {
	exec, err := r.db.Execution.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	ag, err := r.db.Agent.Get(ctx, exec.AgentID)
	if err != nil {
		return nil, fmt.Errorf("loading agent: %w", err)
	}
	if ag.Deleted() {
		return nil, fmt.Errorf("agent %s was deleted", ag.ID)
	}
	if !ag.IsActive {
		return nil, fmt.Errorf("agent %s is inactive", ag.ID)
	}

	delegations, err := r.delegations.ListDelegations(ctx, ag.ID)
	if err != nil {
		return nil, fmt.Errorf("resolving subagents: %w", err)
	}

	toolIDs, err := r.db.Agent.ToolIDs(ctx, ag.ID)
	if err != nil {
		return nil, fmt.Errorf("loading tool links: %w", err)
	}
	var tools []*memory.Tool
	if ids := toolIDs[ag.ID]; len(ids) > 0 {
		tools, err = r.db.Tool.Query().Where(memory_tool.IDIn(ids...)).OrderByName().All(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading tools: %w", err)
		}
	}

	req := &Request{
		ExecutionID: id,
		Agent: AgentSpec{
			ID:           ag.ID,
			Name:         ag.Name,
			Instructions: ag.Instructions,
			ModelName:    ag.ModelName,
			Temperature:  ag.Temperature,
			MaxTokens:    ag.MaxTokens,
		},
		Input: exec.Input,
		Emit: func(ctx context.Context, eventType types.ExecutionEventType, payload map[string]any) error {
			_, err := r.db.Execution.AddEvent(ctx, id, eventType, payload)
			return err
		},
	}
	for _, d := range delegations {
		if !d.Subagent.IsActive {
			continue
		}
		req.Subagents = append(req.Subagents, SubagentSpec{
			ID:               d.ChildID,
			Name:             d.Subagent.Name,
			DelegationPrompt: d.DelegationPrompt,
			Priority:         d.Priority,
		})
	}
	for _, t := range tools {
		req.Tools = append(req.Tools, ToolSpec{ID: t.ID, Name: t.Name, Type: t.ToolType, Config: t.Config})
	}
	return req, nil
}

func (r *Runner) finish(ctx context.Context, id uuid.UUID, status types.ExecutionStatus, result *Result, reason string) error {
	update := r.db.Execution.UpdateOneID(id).
		SetStatus(status).
		SetCompletedAt(time.Now())

	payload := map[string]any{"status": string(status)}
	if result != nil {
		cost := r.Cost(result.InputTokens + result.OutputTokens)
		update.SetOutput(result.Output).
			SetInputTokens(result.InputTokens).
			SetOutputTokens(result.OutputTokens).
			SetCost(cost)
		payload["cost"] = cost.String()
	}
	if reason != "" {
		update.SetError(reason)
		payload["error"] = reason
	}

	changed, err := r.db.Execution.Transition(ctx, update, types.ExecutionStatusRunning)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if _, err := r.db.Execution.AddEvent(ctx, id, terminalEvent(status), payload); err != nil {
		return err
	}

	r.finished.WithLabelValues(string(status)).Inc()
	r.logger.InfoContext(ctx, "execution finished", "execution_id", id, "status", status)
	return nil
}

// Cost prices a number of tokens.
func (r *Runner) Cost(tokens int64) decimal.Decimal {
	return decimal.NewFromInt(tokens).Div(decimal.NewFromInt(1000)).Mul(r.costPer1K)
}

func (r *Runner) cancel(id uuid.UUID) {
	r.mu.Lock()
	cancel, ok := r.running[id]
	r.mu.Unlock()
	if ok {
		cancel(errCancelRequested)
	}
}

func terminalEvent(status types.ExecutionStatus) types.ExecutionEventType {
	switch status {
	case types.ExecutionStatusCompleted:
		return types.ExecutionEventCompleted
	case types.ExecutionStatusCancelled:
		return types.ExecutionEventCancelled
	default:
		return types.ExecutionEventFailed
	}
}
