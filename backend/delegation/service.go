package delegation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/deepagents/control/backend/delegation"

// Service maintains the delegation graph between agents. The graph is kept
// free of self references, duplicate edges and cycles.
type Service struct {
	tx        Transactor
	logger    *slog.Logger
	tracer    trace.Tracer
	batchSize int

	// mu serializes mutations. A cycle can span edges of many parents, so a
	// per-parent lock would not be enough.
	mu sync.Mutex

	operations *prometheus.CounterVec
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func WithBatchSize(n int) Option {
	return func(s *Service) {
		s.batchSize = n
	}
}

// WithRegisterer registers the operation counter with reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Service) {
		s.operations = newOperationsCounter(reg)
	}
}

func newOperationsCounter(reg prometheus.Registerer) *prometheus.CounterVec {
	return promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
		Name: "delegation_operations_total",
		Help: "Delegation graph operations by operation and result.",
	}, []string{"operation", "result"})
}

func NewService(tx Transactor, opts ...Option) *Service {
	s := &Service{
		tx:        tx,
		logger:    slog.Default(),
		tracer:    otel.Tracer(tracerName),
		batchSize: DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.operations == nil {
		s.operations = newOperationsCounter(nil)
	}
	return s
}

// AddDelegation lets parent delegate to child.
func (s *Service) AddDelegation(ctx context.Context, parent, child uuid.UUID, prompt string, priority int) (_ *Edge, err error) {
	ctx, end := s.start(ctx, "add", parent, child)
	defer func() { end(err) }()

	if parent == child {
		return nil, fmt.Errorf("%w: %s", ErrSelfReference, parent)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var created *Edge
	err = s.tx.WithinTx(ctx, func(repo Repository) error {
		for _, id := range []uuid.UUID{parent, child} {
			ok, err := repo.Agents().Exists(ctx, id)
			if err != nil {
				return fmt.Errorf("checking agent %s: %w", id, err)
			}
			if !ok {
				return fmt.Errorf("%w: %s", ErrAgentNotFound, id)
			}
		}

		existing, err := repo.Edges().Find(ctx, parent, child)
		if err != nil {
			return fmt.Errorf("looking up edge: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("%w: %s -> %s", ErrDuplicateEdge, parent, child)
		}

		cyclic, err := reachable(ctx, repo.Edges(), child, parent, s.batchSize)
		if err != nil {
			return fmt.Errorf("checking for cycles: %w", err)
		}
		if cyclic {
			return fmt.Errorf("%w: %s already reaches %s", ErrCircularDependency, child, parent)
		}

		created, err = repo.Edges().Create(ctx, Edge{
			ParentID:         parent,
			ChildID:          child,
			DelegationPrompt: prompt,
			Priority:         priority,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "delegation added", "parent_id", parent, "child_id", child, "edge_id", created.ID)
	return created, nil
}

// ListDelegations returns the delegations of parent ordered by ascending
// priority, ties broken by creation order. Soft-deleted children are skipped.
func (s *Service) ListDelegations(ctx context.Context, parent uuid.UUID) (_ []Delegation, err error) {
	ctx, end := s.start(ctx, "list", parent, uuid.Nil)
	defer func() { end(err) }()

	var result []Delegation
	err = s.tx.View(ctx, func(repo Repository) error {
		ok, err := repo.Agents().Exists(ctx, parent)
		if err != nil {
			return fmt.Errorf("checking agent %s: %w", parent, err)
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrAgentNotFound, parent)
		}

		edges, err := repo.Edges().EdgesFrom(ctx, parent)
		if err != nil {
			return fmt.Errorf("listing edges: %w", err)
		}
		if len(edges) == 0 {
			return nil
		}

		children := make([]uuid.UUID, len(edges))
		for i, edge := range edges {
			children[i] = edge.ChildID
		}
		summaries, err := repo.Agents().Summaries(ctx, children...)
		if err != nil {
			return fmt.Errorf("resolving subagents: %w", err)
		}

		result = make([]Delegation, 0, len(edges))
		for _, edge := range edges {
			summary, ok := summaries[edge.ChildID]
			if !ok {
				continue
			}
			result = append(result, Delegation{Edge: edge, Subagent: summary})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result == nil {
		result = []Delegation{}
	}
	return result, nil
}

// RemoveDelegation deletes the edge parent -> child.
func (s *Service) RemoveDelegation(ctx context.Context, parent, child uuid.UUID) (err error) {
	ctx, end := s.start(ctx, "remove", parent, child)
	defer func() { end(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.tx.WithinTx(ctx, func(repo Repository) error {
		edge, err := repo.Edges().Find(ctx, parent, child)
		if err != nil {
			return fmt.Errorf("looking up edge: %w", err)
		}
		if edge == nil {
			return fmt.Errorf("%w: %s -> %s", ErrSubagentNotFound, parent, child)
		}
		return repo.Edges().Delete(ctx, edge.ID)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "delegation removed", "parent_id", parent, "child_id", child)
	return nil
}

// UpdateDelegation changes the prompt and/or priority of the edge
// parent -> child. The endpoints are immutable so acyclicity is unaffected.
func (s *Service) UpdateDelegation(ctx context.Context, parent, child uuid.UUID, patch Patch) (_ *Edge, err error) {
	ctx, end := s.start(ctx, "update", parent, child)
	defer func() { end(err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	var updated *Edge
	err = s.tx.WithinTx(ctx, func(repo Repository) error {
		edge, err := repo.Edges().Find(ctx, parent, child)
		if err != nil {
			return fmt.Errorf("looking up edge: %w", err)
		}
		if edge == nil {
			return fmt.Errorf("%w: %s -> %s", ErrSubagentNotFound, parent, child)
		}
		if patch.Empty() {
			updated = edge
			return nil
		}

		updated, err = repo.Edges().Update(ctx, edge.ID, patch)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) start(ctx context.Context, operation string, parent, child uuid.UUID) (context.Context, func(error)) {
	attrs := []attribute.KeyValue{
		attribute.String("delegation.operation", operation),
		attribute.String("delegation.parent_id", parent.String()),
	}
	if child != uuid.Nil {
		attrs = append(attrs, attribute.String("delegation.child_id", child.String()))
	}
	ctx, span := s.tracer.Start(ctx, "delegation."+operation, trace.WithAttributes(attrs...))

	return ctx, func(err error) {
		s.operations.WithLabelValues(operation, result(err)).Inc()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

func result(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrSelfReference):
		return "self_reference"
	case errors.Is(err, ErrDuplicateEdge):
		return "duplicate"
	case errors.Is(err, ErrCircularDependency):
		return "circular"
	case IsNotFound(err):
		return "not_found"
	default:
		return "error"
	}
}
