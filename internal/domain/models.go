package domain

import "time"

// Question mirrors the backend's question payload.
// CorrectAnswers is only populated by the admin detail endpoint.
type Question struct {
	ID             int      `json:"id"`
	Text           string   `json:"question_text"`
	Options        []string `json:"options"`
	CorrectAnswers []string `json:"correct_answers,omitempty"`
	IsTextInput    bool     `json:"is_text_input"`
	ImageURL       string   `json:"image_url"`
	AudioURL       string   `json:"audio_url"`
	VideoURL       string   `json:"video_url"`
}

// HasTimedMedia reports whether the question carries audio or video.
func (q Question) HasTimedMedia() bool {
	return q.AudioURL != "" || q.VideoURL != ""
}

// Quiz is an ordered collection of questions.
type Quiz struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CreatedAt   string     `json:"created_at,omitempty"`
	Questions   []Question `json:"questions"`
}

// HasTimedMedia reports whether any question carries audio or video.
func (q Quiz) HasTimedMedia() bool {
	for _, question := range q.Questions {
		if question.HasTimedMedia() {
			return true
		}
	}
	return false
}

// Question returns the question with the given id.
func (q Quiz) Question(id int) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}

// QuizSummary is one row of the quiz list.
type QuizSummary struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
}

// Identity holds the fields a student enters before starting.
type Identity struct {
	StudentNumber string `json:"studentNumber"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	CourseNumber  string `json:"courseNumber"`
}

// Score is the backend's verdict for a submission.
type Score struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// LoadRequest parameterizes a student-facing quiz fetch.
type LoadRequest struct {
	StudentNumber string
	CourseNumber  string
	Admin         bool
}

// LoadResult is either quiz content or, when the student already
// completed the quiz, the historical score.
type LoadResult struct {
	Quiz  Quiz
	Prior *Score
}

// Submission is the body of a submit call.
type Submission struct {
	StudentNumber    string    `json:"student_number"`
	FirstNameEnglish string    `json:"first_name_english"`
	LastNameEnglish  string    `json:"last_name_english"`
	CourseNumber     string    `json:"course_number"`
	Answers          AnswerSet `json:"answers"`
}

// QuestionInput is one question of a create/update payload.
// Options is sent as null for text-input questions.
type QuestionInput struct {
	QuestionText   string   `json:"question_text"`
	Options        []string `json:"options"`
	CorrectAnswers []string `json:"correct_answers"`
	IsTextInput    bool     `json:"is_text_input"`
	ImageURL       string   `json:"image_url"`
	AudioURL       string   `json:"audio_url"`
	VideoURL       string   `json:"video_url"`
}

// QuizInput is the create/update payload.
type QuizInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Questions   []QuestionInput `json:"questions"`
}

// Trigger names what caused a submission.
type Trigger string

const (
	TriggerManual  Trigger = "manual"
	TriggerTimeout Trigger = "timeout"
)

// AttemptResult is a finished attempt as kept in the results ledger.
type AttemptResult struct {
	QuizID      int       `json:"quizId"`
	Identity    Identity  `json:"identity"`
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	Trigger     Trigger   `json:"trigger"`
	SubmittedAt time.Time `json:"submittedAt"`
}
