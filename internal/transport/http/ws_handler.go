package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"quiz-frontend/internal/app"
	"quiz-frontend/internal/domain"
)

// MediaResolver maps stored media URLs to the URLs a browser should load.
type MediaResolver interface {
	ImageSource(raw string) string
	AudioSource(raw string) string
	VideoSource(raw string) string
}

type WSHandler struct {
	service  *app.AttemptService
	media    MediaResolver
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.AttemptService, media MediaResolver) *WSHandler {
	return &WSHandler{
		service: service,
		media:   media,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	QuestionID int    `json:"questionId"`
	Value      string `json:"value"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and runs one quiz attempt per connection.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	quizID, err := app.ParseQuizID(query.Get("quizId"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	courseNumber := query.Get("courseNumber")
	admin := query.Get("admin") == "true"

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	attempt := h.service.Open(quizID, courseNumber, admin)
	updates, cancel := attempt.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				// keep draining so producers never block on a dead socket
				for range send {
				}
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case snap, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "attempt", Payload: h.resolveMedia(snap)}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	sendError := func(err error) {
		send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if err := h.dispatch(r, attempt, inbound); err != nil {
			sendError(err)
		}
	}

	close(closeSignals)
	h.service.Close(attempt.ID())
	<-updatesDone
	close(send)
	<-writerDone
}

func (h *WSHandler) dispatch(r *http.Request, attempt *app.Attempt, inbound inboundMessage) error {
	switch inbound.Type {
	case "identity":
		var identity domain.Identity
		if err := json.Unmarshal(inbound.Payload, &identity); err != nil {
			return errInvalidPayload
		}
		return attempt.Begin(r.Context(), identity)
	case "text", "choose", "toggle":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errInvalidPayload
		}
		switch inbound.Type {
		case "text":
			return attempt.SetText(payload.QuestionID, payload.Value)
		case "choose":
			return attempt.Choose(payload.QuestionID, payload.Value)
		default:
			return attempt.Toggle(payload.QuestionID, payload.Value)
		}
	case "submit":
		_, err := attempt.Submit(r.Context(), domain.TriggerManual)
		return err
	default:
		return errUnsupportedMessage
	}
}

func (h *WSHandler) resolveMedia(snap app.Snapshot) app.Snapshot {
	if h.media == nil {
		return snap
	}
	for i := range snap.Questions {
		q := &snap.Questions[i]
		q.ImageURL = h.media.ImageSource(q.ImageURL)
		q.AudioURL = h.media.AudioSource(q.AudioURL)
		q.VideoURL = h.media.VideoSource(q.VideoURL)
	}
	return snap
}
