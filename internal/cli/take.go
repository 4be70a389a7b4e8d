package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"quiz-frontend/internal/app"
	"quiz-frontend/internal/backend"
	"quiz-frontend/internal/domain"
)

type takeOptions struct {
	quizID   string
	identity domain.Identity
	admin    bool
}

// mediaResolver maps stored media URLs to fetchable ones.
type mediaResolver interface {
	ImageSource(raw string) string
	AudioSource(raw string) string
	VideoSource(raw string) string
}

// NewTakeCmd runs one timed quiz attempt in the terminal.
func NewTakeCmd(configPath *string) *cobra.Command {
	var opts takeOptions
	cmd := &cobra.Command{
		Use:   "take",
		Short: "Take a quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer d.Close()
			return runTake(cmd.Context(), d.attemptService(), d.client, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.quizID, "quiz", "", "quiz id")
	cmd.Flags().StringVar(&opts.identity.CourseNumber, "course", "", "course number")
	cmd.Flags().StringVar(&opts.identity.StudentNumber, "student", "", "student number")
	cmd.Flags().StringVar(&opts.identity.FirstName, "first", "", "first name in English")
	cmd.Flags().StringVar(&opts.identity.LastName, "last", "", "last name in English")
	cmd.Flags().BoolVar(&opts.admin, "admin", false, "test run without identity")
	return cmd
}

const takeHelp = `commands:
  text <question> <answer>     set a free-text answer
  pick <question> <option>     choose one option (number or text)
  toggle <question> <option>   select/unselect an option of a multi-select
  show                         print the quiz and your answers
  time                         print the time left
  submit                       submit your answers
  quit                         leave without submitting`

func runTake(ctx context.Context, service *app.AttemptService, media mediaResolver, opts takeOptions, in io.Reader, out io.Writer) error {
	quizID, err := app.ParseQuizID(opts.quizID)
	if err != nil {
		return err
	}

	attempt := service.Open(quizID, opts.identity.CourseNumber, opts.admin)
	defer service.Close(attempt.ID())

	if err := attempt.Begin(ctx, opts.identity); err != nil {
		return err
	}
	snap := attempt.Snapshot()
	if snap.State == app.StateSubmitted {
		fmt.Fprintf(out, "You have already taken this quiz. Score: %s\n", formatScore(snap.Score))
		return nil
	}
	printQuiz(out, snap, media)
	fmt.Fprintf(out, "Time left: %s\n%s\n", snap.Clock, takeHelp)

	updates, cancel := attempt.Subscribe()
	defer cancel()

	done := make(chan struct{})
	defer close(done)
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				return nil
			}
			if snap.Trigger != domain.TriggerTimeout {
				continue
			}
			switch snap.State {
			case app.StateSubmitted:
				fmt.Fprintf(out, "Time is up, your answers were submitted. Score: %s\n", formatScore(snap.Score))
				return nil
			case app.StateError:
				return fmt.Errorf("time is up, submission failed: %s", snap.Error)
			}
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			finished, err := handleTakeLine(ctx, attempt, media, line, out)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
			if finished {
				return err
			}
		}
	}
}

// handleTakeLine runs one REPL command. It reports true once the attempt is over.
func handleTakeLine(ctx context.Context, attempt *app.Attempt, media mediaResolver, line string, out io.Writer) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	switch fields[0] {
	case "text", "pick", "toggle":
		if len(fields) < 3 {
			return false, fmt.Errorf("usage: %s <question> <answer>", fields[0])
		}
		questionID, err := strconv.Atoi(fields[1])
		if err != nil {
			return false, domain.ErrQuestionNotFound
		}
		value := strings.Join(fields[2:], " ")
		switch fields[0] {
		case "text":
			return false, attempt.SetText(questionID, value)
		case "pick":
			return false, attempt.Choose(questionID, resolveOption(attempt.Snapshot(), questionID, value))
		default:
			return false, attempt.Toggle(questionID, resolveOption(attempt.Snapshot(), questionID, value))
		}
	case "show":
		snap := attempt.Snapshot()
		printQuiz(out, snap, media)
		printAnswers(out, snap)
	case "time":
		fmt.Fprintf(out, "Time left: %s\n", attempt.Snapshot().Clock)
	case "submit":
		score, err := attempt.Submit(ctx, domain.TriggerManual)
		if err == domain.ErrAlreadySubmitted {
			return false, err
		}
		if err != nil {
			return true, err
		}
		fmt.Fprintf(out, "Quiz submitted. Score: %d/%d\n", score.Score, score.Total)
		return true, nil
	case "quit":
		fmt.Fprintln(out, "Leaving without submitting.")
		return true, nil
	case "help":
		fmt.Fprintln(out, takeHelp)
	default:
		return false, fmt.Errorf("unknown command %q, type help", fields[0])
	}
	return false, nil
}

// resolveOption maps a 1-based option number to the option text.
func resolveOption(snap app.Snapshot, questionID int, value string) string {
	n, err := strconv.Atoi(value)
	if err != nil {
		return value
	}
	for _, q := range snap.Questions {
		if q.ID == questionID && n >= 1 && n <= len(q.Options) {
			return q.Options[n-1]
		}
	}
	return value
}

func printQuiz(out io.Writer, snap app.Snapshot, media mediaResolver) {
	fmt.Fprintf(out, "%s\n", snap.Title)
	if snap.Description != "" {
		fmt.Fprintf(out, "%s\n", snap.Description)
	}
	for _, q := range snap.Questions {
		kind := ""
		if q.IsTextInput {
			kind = " (text)"
		}
		fmt.Fprintf(out, "\n[%d] %s%s\n", q.ID, q.Text, kind)
		if media != nil {
			if q.ImageURL != "" {
				fmt.Fprintf(out, "    image: %s\n", media.ImageSource(q.ImageURL))
			}
			if q.AudioURL != "" {
				fmt.Fprintf(out, "    audio: %s\n", media.AudioSource(q.AudioURL))
				if direct := backend.DriveDirectURL(q.AudioURL); direct != q.AudioURL {
					fmt.Fprintf(out, "    download: %s\n", direct)
				}
			}
			if q.VideoURL != "" {
				fmt.Fprintf(out, "    video: %s\n", media.VideoSource(q.VideoURL))
			}
		}
		for i, opt := range q.Options {
			fmt.Fprintf(out, "    %d) %s\n", i+1, opt)
		}
	}
}

func printAnswers(out io.Writer, snap app.Snapshot) {
	for _, q := range snap.Questions {
		answer, ok := snap.Answers[q.ID]
		switch {
		case !ok:
			fmt.Fprintf(out, "[%d] -\n", q.ID)
		case answer.Multi:
			fmt.Fprintf(out, "[%d] %s\n", q.ID, strings.Join(answer.Choices, ", "))
		default:
			fmt.Fprintf(out, "[%d] %s\n", q.ID, answer.Text)
		}
	}
}

func formatScore(score *domain.Score) string {
	if score == nil {
		return "-"
	}
	return fmt.Sprintf("%d/%d", score.Score, score.Total)
}
