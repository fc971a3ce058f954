package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mergington/rollcall/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func testEvent(i int) Event {
	return Event{
		EventID:  fmt.Sprintf("evt-%d", i),
		Activity: "Chess Club",
		Email:    fmt.Sprintf("student%d@mergington.edu", i),
		Kind:     model.KindSignup,
		TS:       time.Now(),
	}
}

func TestEnqueueDequeue(t *testing.T) {
	Convey("Given an in-memory queue", t, func() {
		ctx := context.Background()
		q := NewInMemoryQueue(WithCapacity(8))
		defer func() { _ = q.Close() }()

		Convey("When enqueuing an event", func() {
			ok := q.Enqueue(ctx, testEvent(1))

			Convey("Then it is accepted and counted", func() {
				So(ok, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 1)
			})

			Convey("And it can be dequeued", func() {
				So(ok, ShouldBeTrue)
				select {
				case got := <-q.Dequeue(ctx):
					So(got.EventID, ShouldEqual, "evt-1")
				case <-time.After(time.Second):
					t.Fatal("timed out waiting for dequeue")
				}
			})
		})

		Convey("When enqueuing with a cancelled context into a full queue", func() {
			small := NewInMemoryQueue(WithCapacity(1))
			defer func() { _ = small.Close() }()
			So(small.Enqueue(ctx, testEvent(1)), ShouldBeTrue)

			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			ok := small.Enqueue(cancelled, testEvent(2))

			Convey("Then the enqueue is refused", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestQueueBackpressure(t *testing.T) {
	Convey("Given a queue at capacity", t, func() {
		ctx := context.Background()
		q := NewInMemoryQueue(WithCapacity(2))
		defer func() { _ = q.Close() }()

		So(q.Enqueue(ctx, testEvent(1)), ShouldBeTrue)
		So(q.Enqueue(ctx, testEvent(2)), ShouldBeTrue)

		Convey("When enqueuing one more", func() {
			ok := q.Enqueue(ctx, testEvent(3))

			Convey("Then it is rejected without blocking", func() {
				So(ok, ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 2)
			})
		})
	})
}

func TestQueueClose(t *testing.T) {
	Convey("Given an open queue", t, func() {
		ctx := context.Background()
		q := NewInMemoryQueue(WithCapacity(4))

		So(q.Enqueue(ctx, testEvent(1)), ShouldBeTrue)

		Convey("When closing it", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then it reports closed and refuses new events", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, testEvent(2)), ShouldBeFalse)
			})

			Convey("And closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})

			Convey("And buffered events drain before the channel closes", func() {
				ch := q.Dequeue(ctx)
				got, open := <-ch
				So(open, ShouldBeTrue)
				So(got.EventID, ShouldEqual, "evt-1")
				_, open = <-ch
				So(open, ShouldBeFalse)
			})
		})
	})
}
