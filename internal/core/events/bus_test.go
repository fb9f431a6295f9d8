package events_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/frahmantamala/accessmodel-admin/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	It("should deliver asynchronously and drain on close", func() {
		var delivered atomic.Int32
		bus.Subscribe(events.EventTypePermissionAdded, func(ctx context.Context, e events.Event) error {
			time.Sleep(10 * time.Millisecond)
			delivered.Add(1)
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		Expect(bus.Publish(ctx, events.NewPermissionAdded("managerworkerextension", nil))).To(Succeed())
		cancel()

		Expect(bus.Close(context.Background())).To(Succeed())
		Expect(delivered.Load()).To(Equal(int32(1)))
	})

	It("should hand handlers a context that survives the publisher's cancellation", func() {
		var handlerErr atomic.Value
		bus.Subscribe(events.EventTypePermissionDeleted, func(ctx context.Context, e events.Event) error {
			handlerErr.Store(ctx.Err() == nil)
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(bus.Publish(ctx, events.NewPermissionDeleted("userteamextension", 4))).To(Succeed())
		Expect(bus.Close(context.Background())).To(Succeed())
		Expect(handlerErr.Load()).To(Equal(true))
	})

	It("should stop synchronous delivery at the first failure", func() {
		calls := 0
		bus.Subscribe(events.EventTypePermissionAdded, func(ctx context.Context, e events.Event) error {
			calls++
			return errors.New("audit sink down")
		})
		bus.Subscribe(events.EventTypePermissionAdded, func(ctx context.Context, e events.Event) error {
			calls++
			return nil
		})

		err := bus.PublishSync(context.Background(), events.NewPermissionAdded("userteamextension", nil))
		Expect(err).To(MatchError(ContainSubstring("audit sink down")))
		Expect(calls).To(Equal(1))
	})

	It("should refuse asynchronous events once closed", func() {
		var delivered atomic.Int32
		bus.Subscribe(events.EventTypePermissionAdded, func(ctx context.Context, e events.Event) error {
			delivered.Add(1)
			return nil
		})

		Expect(bus.Close(context.Background())).To(Succeed())
		err := bus.Publish(context.Background(), events.NewPermissionAdded("managerworkerextension", nil))
		Expect(errors.Is(err, events.ErrBusClosed)).To(BeTrue())
		Expect(bus.Close(context.Background())).To(Succeed())
		Expect(delivered.Load()).To(BeZero())
	})

	It("should not lose events published while closing", func() {
		var delivered atomic.Int32
		bus.Subscribe(events.EventTypePermissionDeleted, func(ctx context.Context, e events.Event) error {
			time.Sleep(time.Millisecond)
			delivered.Add(1)
			return nil
		})

		var accepted atomic.Int32
		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 200; i++ {
				if bus.Publish(context.Background(), events.NewPermissionDeleted("userteamextension", int64(i))) == nil {
					accepted.Add(1)
				}
			}
		}()

		time.Sleep(time.Millisecond)
		Expect(bus.Close(context.Background())).To(Succeed())
		<-done
		Expect(bus.Close(context.Background())).To(Succeed())
		Expect(delivered.Load()).To(Equal(accepted.Load()))
	})

	It("should ignore events nobody listens to", func() {
		Expect(bus.Publish(context.Background(), events.NewPermissionDeleted("userteamextension", 1))).To(Succeed())
	})

	It("should carry table and id in the payload", func() {
		e := events.NewPermissionDeleted("managerworkerextension", 7)
		Expect(e.EventType()).To(Equal(events.EventTypePermissionDeleted))
		Expect(e.Payload()).To(HaveKeyWithValue("row_id", int64(7)))
		Expect(e.EventID()).NotTo(BeEmpty())
	})
})
