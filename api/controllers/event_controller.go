/*
 * @module api/controllers/event_controller
 * @description Server-sent event stream of dataset reload notifications
 * @architecture MVC - controller layer, long-lived streaming response
 * @documentReference DESIGN.md
 * @stateFlow subscribe -> connected frame -> event frames / keep-alive comments -> unsubscribe
 * @rules A slow client loses events rather than blocking reloads
 * @dependencies github.com/google/uuid
 * @refs service/event/broadcaster.go
 */

package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"peer-funding-service/service/event"

	"github.com/google/uuid"
)

// EventController streams dataset events.
type EventController struct {
	broadcaster *event.Broadcaster
	keepAlive   time.Duration
}

// NewEventController creates the controller.
func NewEventController(broadcaster *event.Broadcaster) *EventController {
	return &EventController{broadcaster: broadcaster, keepAlive: 30 * time.Second}
}

// Stream dataset event stream
// @Summary Dataset event stream
// @Description Server-sent events: one frame per dataset reload or failed reload
// @Tags events
// @Produce text/event-stream
// @Success 200 {string} string "SSE stream"
// @Router /events [get]
func (c *EventController) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	id := uuid.New().String()
	clientIP := r.RemoteAddr
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		clientIP = forwarded
	}

	sub := c.broadcaster.Subscribe(id, clientIP)
	defer c.broadcaster.Unsubscribe(id)

	fmt.Fprintf(w, "event: connected\ndata: {\"connection_id\":%q,\"timestamp\":%q}\n\n", id, time.Now().Format(time.RFC3339))
	flusher.Flush()

	ticker := time.NewTicker(c.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case evt, open := <-sub.Events:
			if !open {
				return
			}
			payload, err := json.Marshal(evt)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Type, payload)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
