package eventbus

import (
	"context"
	"testing"
	"time"

	"linker/internal/shortener/domain/event"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestEncode(t *testing.T) {
	evt := event.NewLinkCreated("link-1", "abc123", "https://example.com", false)

	msg, err := Encode(evt)

	require.NoError(t, err)
	assert.Equal(t, evt.EventID(), msg.UUID)
	assert.Equal(t, event.LinkCreatedName, EventName(msg))
	assert.Equal(t, "abc123", msg.Metadata.Get(metadataAggregateID))
}

func TestDecode(t *testing.T) {
	clickedAt := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	evt := event.NewLinkClicked("abc123", clickedAt, "Mozilla/5.0", "https://t.co/x", "198.51.100.4", true)
	msg, err := Encode(evt)
	require.NoError(t, err)

	envelope, err := Decode(msg)
	require.NoError(t, err)

	assert.Equal(t, evt.EventID(), envelope.ID)
	assert.Equal(t, event.LinkClickedName, envelope.Name)
	assert.Equal(t, "abc123", envelope.AggregateID)
	assert.True(t, evt.OccurredAt().Equal(envelope.OccurredAt))

	var decoded event.LinkClicked
	require.NoError(t, envelope.Decode(&decoded))
	assert.Equal(t, "abc123", decoded.Alias)
	assert.True(t, clickedAt.Equal(decoded.ClickedAt))
	assert.Equal(t, "Mozilla/5.0", decoded.UserAgent)
	assert.Equal(t, "198.51.100.4", decoded.ClientIP)
	assert.True(t, decoded.Recorded)
}

func TestDecode_Malformed(t *testing.T) {
	_, err := Decode(message.NewMessage("m-1", []byte("{")))
	assert.ErrorContains(t, err, "m-1")
}

type EventBusTestSuite struct {
	suite.Suite
	sut *EventBus
}

func TestEventBusTestSuite(t *testing.T) {
	suite.Run(t, new(EventBusTestSuite))
}

func (s *EventBusTestSuite) SetupTest() {
	s.sut = NewEventBus(watermill.NopLogger{})
}

func (s *EventBusTestSuite) TearDownTest() {
	s.sut.Close()
}

func (s *EventBusTestSuite) TestPublishWithoutSubscribers() {
	err := s.sut.Publish(context.Background(), event.NewLinkCreated("link-3", "nobody", "https://example.com", false))

	s.NoError(err)
}

func (s *EventBusTestSuite) TestPublishAndSubscribe() {
	// Arrange
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	messages, err := s.sut.Subscriber().Subscribe(ctx, LinkEventsTopic)
	s.Require().NoError(err)

	// Act
	err = s.sut.Publish(ctx, event.NewLinkCreated("link-2", "test123", "https://example.com", true))
	s.Require().NoError(err)

	// Assert
	select {
	case msg := <-messages:
		envelope, err := Decode(msg)
		s.NoError(err)
		s.Equal(event.LinkCreatedName, envelope.Name)
		s.Equal("test123", envelope.AggregateID)
		msg.Ack()
	case <-ctx.Done():
		s.Fail("timeout waiting for message")
	}
}

func (s *EventBusTestSuite) TestPublishAfterClose() {
	s.Require().NoError(s.sut.Close())

	err := s.sut.Publish(context.Background(), event.NewLinkCreated("link-4", "late", "https://example.com", false))

	s.Error(err)
}
