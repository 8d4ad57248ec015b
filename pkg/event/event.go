// Package event is an in-process dispatcher. Domain services fire
// named events; listeners registered at boot react to them (order
// placed notifications, websocket broadcasts, audit trails).
package event

import (
	"sync"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/logger"
)

// Handler receives the event payload.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
)

// Listen registers a handler for the event name.
func Listen(name string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[name] = append(handlers[name], handler)
}

// Fire dispatches synchronously to every listener, in registration
// order. A panicking listener does not stop the rest.
func Fire(name string, payload interface{}) {
	for _, h := range snapshot(name) {
		call(name, h, payload)
	}
}

// FireAsync dispatches each listener on its own goroutine and returns
// immediately.
func FireAsync(name string, payload interface{}) {
	for _, h := range snapshot(name) {
		h := h
		go call(name, h, payload)
	}
}

// Flush drops all listeners. Used by tests.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}

func snapshot(name string) []Handler {
	mu.RLock()
	defer mu.RUnlock()
	hs := make([]Handler, len(handlers[name]))
	copy(hs, handlers[name])
	return hs
}

func call(name string, h Handler, payload interface{}) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("event listener panicked", "event", name, "panic", r)
		}
	}()
	h(payload)
}
