package domain

import "strings"

// Validate checks the fields the identity gate requires. Course number may
// arrive pre-filled from a link and is not checked here.
func (i Identity) Validate() error {
	if strings.TrimSpace(i.StudentNumber) == "" ||
		strings.TrimSpace(i.FirstName) == "" ||
		strings.TrimSpace(i.LastName) == "" {
		return ErrIdentityIncomplete
	}
	return nil
}

// Submission builds the submit body for this identity.
func (i Identity) Submission(answers AnswerSet) Submission {
	return Submission{
		StudentNumber:    i.StudentNumber,
		FirstNameEnglish: i.FirstName,
		LastNameEnglish:  i.LastName,
		CourseNumber:     i.CourseNumber,
		Answers:          answers,
	}
}
