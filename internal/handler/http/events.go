package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Horattiu/RemediumFarm-sub000/internal/handler/http/middleware"
	"github.com/Horattiu/RemediumFarm-sub000/internal/handler/http/response"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/jwt"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/sse"
)

type EventsHandler interface {
	GetSSEToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type eventsHandlerImpl struct {
	hub        *sse.Hub
	jwtService jwt.Service
	keepalive  time.Duration
}

// NewEventsHandler streams change events from hub. A nil jwtService leaves
// the stream open, matching the router with authentication disabled.
func NewEventsHandler(hub *sse.Hub, jwtService jwt.Service) EventsHandler {
	return &eventsHandlerImpl{
		hub:        hub,
		jwtService: jwtService,
		keepalive:  30 * time.Second,
	}
}

type sseTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// GetSSEToken issues a short-lived stream token, since EventSource cannot
// send an Authorization header.
func (h *eventsHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	if h.jwtService == nil {
		response.NotFound(w, "Stream tokens are not required")
		return
	}

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(caller.Subject, caller.WorkplaceID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, sseTokenResponse{Token: token, ExpiresIn: expiresIn})
}

// Stream handles the SSE connection for attendance and leave changes
func (h *eventsHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("workplace_id")

	if h.jwtService != nil {
		tokenStr := r.URL.Query().Get("token")
		if tokenStr == "" {
			response.Unauthorized(w, "Missing token")
			return
		}
		claims, err := h.jwtService.ValidateSSEToken(tokenStr)
		if err != nil {
			response.Unauthorized(w, "Invalid token")
			return
		}
		// Workplace-scoped callers only see their own workplace.
		if claims.WorkplaceID != nil {
			if topic != "" && topic != *claims.WorkplaceID {
				response.Forbidden(w, "Workplace not allowed")
				return
			}
			topic = *claims.WorkplaceID
		}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(topic)
	defer cleanup()

	if topic == "" {
		topic = sse.AllTopics
	}
	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"workplace_id\":%q}\n\n", topic)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
