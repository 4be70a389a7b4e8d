package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"quiz-frontend/internal/domain"
)

// AlreadyTakenMessage is the marker the backend returns instead of quiz
// content when the student has completed the quiz before.
const AlreadyTakenMessage = "You have already taken this quiz."

// HTTPError carries a non-2xx backend response. Detail is the raw body.
type HTTPError struct {
	Status int
	Detail string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: status %d, details: %s", e.Status, e.Detail)
}

// Client talks to the quiz backend REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return NewWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// BaseURL returns the backend root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListQuizzes returns the quiz list. A non-array body yields an empty list.
func (c *Client) ListQuizzes(ctx context.Context) ([]domain.QuizSummary, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/quizzes/", nil, nil, &raw); err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return []domain.QuizSummary{}, nil
	}
	var quizzes []domain.QuizSummary
	if err := json.Unmarshal(raw, &quizzes); err != nil {
		return nil, fmt.Errorf("decode quiz list: %w", err)
	}
	return quizzes, nil
}

// QuizDetails loads a quiz including correct answers, for editing.
func (c *Client) QuizDetails(ctx context.Context, quizID int) (domain.Quiz, error) {
	var quiz domain.Quiz
	if err := c.do(ctx, http.MethodGet, "/quiz_details/"+strconv.Itoa(quizID), nil, nil, &quiz); err != nil {
		return domain.Quiz{}, err
	}
	return quiz, nil
}

// LoadQuiz fetches quiz content for a student attempt.
func (c *Client) LoadQuiz(ctx context.Context, quizID int, req domain.LoadRequest) (domain.LoadResult, error) {
	query := url.Values{}
	query.Set("student_number", req.StudentNumber)
	query.Set("course_number", req.CourseNumber)
	if req.Admin {
		query.Set("admin", "true")
	}

	var payload struct {
		domain.Quiz
		Message string `json:"message"`
		Score   int    `json:"score"`
		Total   int    `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, "/quiz/"+strconv.Itoa(quizID), query, nil, &payload); err != nil {
		return domain.LoadResult{}, err
	}
	if payload.Message == AlreadyTakenMessage {
		return domain.LoadResult{Prior: &domain.Score{Score: payload.Score, Total: payload.Total}}, nil
	}
	return domain.LoadResult{Quiz: payload.Quiz}, nil
}

func (c *Client) CreateQuiz(ctx context.Context, input domain.QuizInput) error {
	return c.do(ctx, http.MethodPost, "/add_quiz/", nil, input, nil)
}

func (c *Client) UpdateQuiz(ctx context.Context, quizID int, input domain.QuizInput) error {
	return c.do(ctx, http.MethodPut, "/update_quiz/"+strconv.Itoa(quizID), nil, input, nil)
}

func (c *Client) DeleteQuiz(ctx context.Context, quizID int) error {
	return c.do(ctx, http.MethodDelete, "/delete_quiz/"+strconv.Itoa(quizID), nil, nil, nil)
}

// SubmitQuiz posts answers for scoring. Admin submissions are scored but not persisted by the backend.
func (c *Client) SubmitQuiz(ctx context.Context, quizID int, admin bool, submission domain.Submission) (domain.Score, error) {
	var query url.Values
	if admin {
		query = url.Values{"admin": []string{"true"}}
	}
	if submission.Answers == nil {
		submission.Answers = domain.AnswerSet{}
	}
	var score domain.Score
	if err := c.do(ctx, http.MethodPost, "/submit_quiz/"+strconv.Itoa(quizID), query, submission, &score); err != nil {
		return domain.Score{}, err
	}
	return score, nil
}

// QRCode downloads the PNG the backend renders for a share link.
func (c *Client) QRCode(ctx context.Context, quizID int, courseNumber string) ([]byte, error) {
	path := "/generate_qr/" + strconv.Itoa(quizID) + "/" + url.PathEscape(courseNumber)
	resp, err := c.send(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	resp, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// send issues the request and converts non-2xx responses into *HTTPError.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		detail, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &HTTPError{Status: resp.StatusCode, Detail: string(detail)}
	}
	return resp, nil
}
