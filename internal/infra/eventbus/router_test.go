package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"linker/internal/shortener/domain/event"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/suite"
)

var handlerSeq atomic.Int64

// recordingHandler collects the envelopes it receives.
type recordingHandler struct {
	name      string
	eventName string

	mu       sync.Mutex
	received []*Envelope
}

func newRecordingHandler(eventName string) *recordingHandler {
	return &recordingHandler{
		name:      fmt.Sprintf("recording_%s_%d", eventName, handlerSeq.Add(1)),
		eventName: eventName,
	}
}

func (h *recordingHandler) HandlerName() string { return h.name }

func (h *recordingHandler) EventName() string { return h.eventName }

func (h *recordingHandler) Handle(_ context.Context, envelope *Envelope) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.received = append(h.received, envelope)
	return nil
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.received)
}

// flakyHandler fails its first failures calls, or every call when failures < 0.
type flakyHandler struct {
	failures int64
	panics   bool
	calls    atomic.Int64
}

func (h *flakyHandler) HandlerName() string { return fmt.Sprintf("flaky_%p", h) }

func (h *flakyHandler) EventName() string { return event.LinkCreatedName }

func (h *flakyHandler) Handle(context.Context, *Envelope) error {
	n := h.calls.Add(1)
	if h.failures >= 0 && n > h.failures {
		return nil
	}
	if h.panics {
		panic("handler exploded")
	}
	return errors.New("boom")
}

type RouterTestSuite struct {
	suite.Suite
	bus    *EventBus
	sut    *Router
	cancel context.CancelFunc
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) SetupTest() {
	s.bus = NewEventBus(watermill.NopLogger{})

	var err error
	s.sut, err = NewRouter(s.bus, watermill.NopLogger{})
	s.Require().NoError(err)
}

func (s *RouterTestSuite) TearDownTest() {
	if s.cancel != nil {
		s.cancel()
	}
	s.sut.Close()
	s.bus.Close()
}

func (s *RouterTestSuite) start() {
	var ctx context.Context
	ctx, s.cancel = context.WithCancel(context.Background())
	go s.sut.Run(ctx)
	<-s.sut.Running()
}

func (s *RouterTestSuite) publishCreated() {
	s.Require().NoError(s.bus.Publish(context.Background(), event.NewLinkCreated("link-1", "abc123", "https://example.com", false)))
}

func (s *RouterTestSuite) TestRoutesEventsByName() {
	created := newRecordingHandler(event.LinkCreatedName)
	clicked := newRecordingHandler(event.LinkClickedName)
	s.sut.AddHandler(created)
	s.sut.AddHandler(clicked)
	s.start()

	s.publishCreated()

	s.Eventually(func() bool { return created.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	s.Never(func() bool { return clicked.count() > 0 }, 100*time.Millisecond, 10*time.Millisecond)
}

func (s *RouterTestSuite) TestFanOutToEveryHandlerOfAnEvent() {
	first := newRecordingHandler(event.LinkClickedName)
	second := newRecordingHandler(event.LinkClickedName)
	s.sut.AddHandler(first)
	s.sut.AddHandler(second)
	s.start()

	err := s.bus.Publish(context.Background(), event.NewLinkClicked("abc123", time.Now().UTC(), "Mozilla", "", "127.0.0.1", true))
	s.Require().NoError(err)

	s.Eventually(func() bool { return first.count() == 1 && second.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	s.Len(s.sut.Handlers(), 2)
}

func (s *RouterTestSuite) TestTransientFailureIsRetried() {
	handler := &flakyHandler{failures: 1}
	s.sut.AddHandler(handler)
	s.start()

	s.publishCreated()

	s.Eventually(func() bool { return handler.calls.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func (s *RouterTestSuite) TestPersistentFailureIsDroppedAfterRetries() {
	handler := &flakyHandler{failures: -1}
	s.sut.AddHandler(handler)
	s.start()

	s.publishCreated()

	want := int64(1 + handlerRetries)
	s.Eventually(func() bool { return handler.calls.Load() == want }, 3*time.Second, 10*time.Millisecond)
	s.Never(func() bool { return handler.calls.Load() > want }, 500*time.Millisecond, 20*time.Millisecond)
}

func (s *RouterTestSuite) TestPanicIsRecovered() {
	handler := &flakyHandler{failures: 1, panics: true}
	next := newRecordingHandler(event.LinkCreatedName)
	s.sut.AddHandler(handler)
	s.sut.AddHandler(next)
	s.start()

	s.publishCreated()
	s.publishCreated()

	s.Eventually(func() bool { return next.count() == 2 }, 2*time.Second, 10*time.Millisecond)
	s.Eventually(func() bool { return handler.calls.Load() == 3 }, 2*time.Second, 10*time.Millisecond)
}
