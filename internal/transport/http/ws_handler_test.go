package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"quiz-frontend/internal/app"
	"quiz-frontend/internal/backend"
	"quiz-frontend/internal/domain"
	"quiz-frontend/internal/infra/memory"
)

type stubBackend struct {
	mu          sync.Mutex
	submissions []domain.Submission
}

func (b *stubBackend) LoadQuiz(_ context.Context, quizID int, _ domain.LoadRequest) (domain.LoadResult, error) {
	return domain.LoadResult{Quiz: domain.Quiz{
		ID:    quizID,
		Title: "Listening",
		Questions: []domain.Question{
			{ID: 1, Text: "What did you hear?", Options: []string{"A: Rain", "B: Wind"}, AudioURL: "https://files.example/clip.mp3"},
		},
	}}, nil
}

func (b *stubBackend) SubmitQuiz(_ context.Context, _ int, _ bool, submission domain.Submission) (domain.Score, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.submissions = append(b.submissions, submission)
	return domain.Score{Score: 1, Total: 1}, nil
}

// idleTicker never fires, so snapshots only change on client input.
type idleTicker struct{}

func (idleTicker) C() <-chan time.Time { return nil }
func (idleTicker) Stop()               {}

func newTestServer(t *testing.T) (*httptest.Server, *stubBackend, *memory.SessionStore) {
	t.Helper()
	stub := &stubBackend{}
	store := memory.NewSessionStore()
	service := app.NewAttemptService(store, stub, nil, app.AttemptOptions{
		NewTicker: func(time.Duration) app.Ticker { return idleTicker{} },
	})
	media := backend.New("http://backend.test", time.Second)
	server := httptest.NewServer(NewRouter(NewWSHandler(service, media), nil))
	t.Cleanup(server.Close)
	return server, stub, store
}

func TestWebSocketAttemptFlow(t *testing.T) {
	server, stub, store := newTestServer(t)

	u := "ws" + server.URL[len("http"):] + "/ws?quizId=3&courseNumber=0012"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	snap := readAttempt(t, conn, app.StateIdentity)
	if snap.Identity.CourseNumber != "0012" || snap.QuizID != 3 {
		t.Fatalf("unexpected initial snapshot %+v", snap)
	}

	send(t, conn, "identity", map[string]any{"studentNumber": "s-1", "firstName": "Ada", "lastName": "Lovelace"})
	snap = readAttempt(t, conn, app.StateInProgress)
	if snap.Remaining != 600 {
		t.Fatalf("expected media time limit, got %d", snap.Remaining)
	}
	if got := snap.Questions[0].AudioURL; !strings.HasPrefix(got, "http://backend.test/proxy_media/?url=") {
		t.Fatalf("expected proxied audio, got %s", got)
	}

	send(t, conn, "choose", map[string]any{"questionId": 1, "value": "B: Wind"})
	send(t, conn, "submit", nil)
	snap = readAttempt(t, conn, app.StateSubmitted)
	if snap.Score == nil || snap.Score.Score != 1 {
		t.Fatalf("expected score, got %+v", snap.Score)
	}

	stub.mu.Lock()
	sent := stub.submissions
	stub.mu.Unlock()
	if len(sent) != 1 || sent[0].Answers[1].Text != "Wind" || sent[0].CourseNumber != "0012" {
		t.Fatalf("unexpected submissions %+v", sent)
	}

	conn.Close()
	deadline := time.Now().Add(2 * time.Second)
	for store.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if store.Len() != 0 {
		t.Fatalf("expected attempt torn down after disconnect")
	}
}

func TestWebSocketReportsErrors(t *testing.T) {
	server, _, _ := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+server.URL[len("http"):]+"/ws?quizId=3", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	readAttempt(t, conn, app.StateIdentity)

	send(t, conn, "submit", nil)
	if msg := readError(t, conn); msg != domain.ErrNotInProgress.Error() {
		t.Fatalf("expected not in progress, got %q", msg)
	}
	send(t, conn, "dance", nil)
	if msg := readError(t, conn); msg != errUnsupportedMessage.Error() {
		t.Fatalf("expected unsupported message, got %q", msg)
	}
	send(t, conn, "identity", map[string]any{"studentNumber": "s-1"})
	if msg := readError(t, conn); msg != domain.ErrIdentityIncomplete.Error() {
		t.Fatalf("expected incomplete identity, got %q", msg)
	}
}

func TestWebSocketRejectsMissingQuizID(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/ws?courseNumber=12")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("unexpected health response %d %q", resp.StatusCode, body)
	}
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func readNext(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	var msg envelope
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	return msg
}

// readAttempt skips messages until an attempt snapshot in the wanted state arrives.
func readAttempt(t *testing.T, conn *websocket.Conn, want app.State) app.Snapshot {
	t.Helper()
	for i := 0; i < 20; i++ {
		msg := readNext(t, conn)
		if msg.Type != "attempt" {
			continue
		}
		var snap app.Snapshot
		if err := json.Unmarshal(msg.Payload, &snap); err != nil {
			t.Fatalf("decode snapshot: %v", err)
		}
		if snap.State == want {
			return snap
		}
	}
	t.Fatalf("never saw state %s", want)
	return app.Snapshot{}
}

func readError(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	for i := 0; i < 20; i++ {
		msg := readNext(t, conn)
		if msg.Type != "error" {
			continue
		}
		var payload errorPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			t.Fatalf("decode error: %v", err)
		}
		return payload.Message
	}
	t.Fatalf("never saw an error message")
	return ""
}
