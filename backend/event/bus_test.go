package event

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestPublishDeliversByType(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	var created, cancelled []uuid.UUID
	Subscribe(bus, func(_ context.Context, e ExecutionCreated) {
		created = append(created, e.ExecutionID)
	}, nil)
	sub := Subscribe(bus, func(_ context.Context, e ExecutionCancelled) {
		cancelled = append(cancelled, e.ExecutionID)
	}, nil)

	first, second := uuid.New(), uuid.New()
	Publish(ctx, bus, ExecutionCreated{ExecutionID: first})
	Publish(ctx, bus, ExecutionCancelled{ExecutionID: second})

	sub.Unsubscribe()
	Publish(ctx, bus, ExecutionCancelled{ExecutionID: uuid.New()})

	if diff := cmp.Diff([]uuid.UUID{first}, created); diff != "" {
		t.Errorf("created mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uuid.UUID{second}, cancelled); diff != "" {
		t.Errorf("cancelled mismatch (-want +got):\n%s", diff)
	}
}

func TestSubscribeFilter(t *testing.T) {
	bus := NewBus()
	var permanent int
	Subscribe(bus, func(context.Context, AgentDeleted) {
		permanent++
	}, func(e AgentDeleted) bool {
		return e.Permanent
	})

	Publish(context.Background(), bus, AgentDeleted{AgentID: uuid.New()})
	Publish(context.Background(), bus, AgentDeleted{AgentID: uuid.New(), Permanent: true})

	if permanent != 1 {
		t.Errorf("expected one delivery, got %d", permanent)
	}
}

func TestPanickingHandlerDoesNotStopDelivery(t *testing.T) {
	bus := NewBus()
	delivered := false
	Subscribe(bus, func(context.Context, ExecutionCreated) {
		panic("boom")
	}, nil)
	Subscribe(bus, func(context.Context, ExecutionCreated) {
		delivered = true
	}, nil)

	Publish(context.Background(), bus, ExecutionCreated{ExecutionID: uuid.New()})

	if !delivered {
		t.Error("second handler was not called")
	}
}
