package server

import (
	"fmt"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/log"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "notice", "warning", "error"
}

// WebLogger implements log.Logger by writing to a base logger and copying
// each message to a console channel
type WebLogger struct {
	renderID    string
	base        log.Logger
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a new web logger for a specific render
func NewWebLogger(renderID string, base log.Logger, consoleChan chan<- ConsoleMessage) *WebLogger {
	return &WebLogger{
		renderID:    renderID,
		base:        base,
		consoleChan: consoleChan,
	}
}

func (wl *WebLogger) Debugf(format string, args ...interface{}) {
	wl.base.Debugf(format, args...)
	wl.send("debug", format, args)
}

func (wl *WebLogger) Infof(format string, args ...interface{}) {
	wl.base.Infof(format, args...)
	wl.send("info", format, args)
}

func (wl *WebLogger) Noticef(format string, args ...interface{}) {
	wl.base.Noticef(format, args...)
	wl.send("notice", format, args)
}

func (wl *WebLogger) Warningf(format string, args ...interface{}) {
	wl.base.Warningf(format, args...)
	wl.send("warning", format, args)
}

func (wl *WebLogger) Errorf(format string, args ...interface{}) {
	wl.base.Errorf(format, args...)
	wl.send("error", format, args)
}

// send never blocks; messages are dropped while the channel is full
func (wl *WebLogger) send(level, format string, args []interface{}) {
	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{
		Message:   fmt.Sprintf(format, args...),
		Timestamp: time.Now(),
		Level:     level,
	}:
	default:
	}
}
