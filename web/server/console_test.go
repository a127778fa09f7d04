package server

import (
	"testing"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/log"
)

func TestWebLogger_Levels(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger("test-render-123", log.New("test"), messageChan)

	logger.Debugf("tracing %d rays", 4)
	logger.Infof("render %s started", "abc")
	logger.Noticef("listening")
	logger.Warningf("occlusion without samples")
	logger.Errorf("pass %d failed", 2)

	expected := []ConsoleMessage{
		{Message: "tracing 4 rays", Level: "debug"},
		{Message: "render abc started", Level: "info"},
		{Message: "listening", Level: "notice"},
		{Message: "occlusion without samples", Level: "warning"},
		{Message: "pass 2 failed", Level: "error"},
	}

	for i, want := range expected {
		select {
		case msg := <-messageChan:
			if msg.Message != want.Message {
				t.Errorf("Message %d: expected '%s', got '%s'", i, want.Message, msg.Message)
			}
			if msg.Level != want.Level {
				t.Errorf("Message %d: expected level '%s', got '%s'", i, want.Level, msg.Level)
			}
			if time.Since(msg.Timestamp) > time.Second {
				t.Errorf("Timestamp seems too old: %v", msg.Timestamp)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("Timeout waiting for message %d", i)
		}
	}
}

func TestWebLogger_ChannelFull(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 1)
	logger := NewWebLogger("test-render-789", log.New("test"), messageChan)

	// the second and third messages are dropped instead of blocking
	logger.Infof("Message 1")
	logger.Infof("Message 2")
	logger.Infof("Message 3")

	msg := <-messageChan
	if msg.Message != "Message 1" {
		t.Errorf("Expected 'Message 1', got '%s'", msg.Message)
	}
	select {
	case msg := <-messageChan:
		t.Errorf("Expected no queued message, got '%s'", msg.Message)
	default:
	}
}

func TestWebLogger_NilChannel(t *testing.T) {
	logger := NewWebLogger("test-render-nil", log.New("test"), nil)

	// This should not panic
	logger.Infof("Test message with nil channel")
}
