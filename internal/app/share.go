package app

import (
	"fmt"
	"strings"

	"quiz-frontend/internal/domain"
)

// CleanCourseNumber keeps only the digits of a course number.
func CleanCourseNumber(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", domain.ErrShareParams
	}
	clean := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if clean == "" {
		return "", domain.ErrInvalidCourseNumber
	}
	return clean, nil
}

// ShareURL builds the student link for a quiz and a cleaned course number.
// With admin set the link opens a test run that skips the identity gate.
func ShareURL(frontendURL string, quizID int, courseNumber string, admin bool) string {
	link := fmt.Sprintf("%s/quiz?quizId=%d&courseNumber=%s", strings.TrimRight(frontendURL, "/"), quizID, courseNumber)
	if admin {
		link += "&admin=true"
	}
	return link
}

// QRFilename is the download name of a share QR code.
func QRFilename(quizID int, courseNumber string) string {
	return fmt.Sprintf("qr_quiz_%d_%s.png", quizID, courseNumber)
}
