package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"quiz-frontend/internal/app"
)

// NewAdminCmd groups the quiz authoring commands.
func NewAdminCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Create, edit, delete and share quizzes",
	}

	withEditor := func(cmd *cobra.Command, confirm app.Confirmer, fn func(ctx context.Context, editor *app.Editor) error) error {
		d, err := loadDeps(cmd.Context(), *configPath)
		if err != nil {
			return err
		}
		defer d.Close()
		editor := app.NewEditor(d.client, d.quizzes, confirm, d.cfg.Frontend.BaseURL)
		return fn(cmd.Context(), editor)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List quizzes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(cmd, nil, func(ctx context.Context, editor *app.Editor) error {
				return adminList(ctx, editor, cmd.OutOrStdout())
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <quizId>",
		Short: "Print a quiz as an editable YAML form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(cmd, nil, func(ctx context.Context, editor *app.Editor) error {
				return adminShow(ctx, editor, args[0], cmd.OutOrStdout())
			})
		},
	})

	var createFile string
	create := &cobra.Command{
		Use:   "create -f quiz.yaml",
		Short: "Create a quiz from a YAML form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := readForm(createFile)
			if err != nil {
				return err
			}
			return withEditor(cmd, nil, func(ctx context.Context, editor *app.Editor) error {
				return adminSave(ctx, editor, "", form, cmd.OutOrStdout())
			})
		},
	}
	create.Flags().StringVarP(&createFile, "file", "f", "", "quiz form file")
	_ = create.MarkFlagRequired("file")
	cmd.AddCommand(create)

	var updateFile string
	update := &cobra.Command{
		Use:   "update <quizId> -f quiz.yaml",
		Short: "Replace a quiz with a YAML form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := readForm(updateFile)
			if err != nil {
				return err
			}
			return withEditor(cmd, nil, func(ctx context.Context, editor *app.Editor) error {
				return adminSave(ctx, editor, args[0], form, cmd.OutOrStdout())
			})
		},
	}
	update.Flags().StringVarP(&updateFile, "file", "f", "", "quiz form file")
	_ = update.MarkFlagRequired("file")
	cmd.AddCommand(update)

	var yes bool
	del := &cobra.Command{
		Use:   "delete <quizId>",
		Short: "Delete a quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			confirm := promptConfirmer(cmd.InOrStdin(), cmd.OutOrStdout())
			if yes {
				confirm = app.ConfirmFunc(func(string) bool { return true })
			}
			return withEditor(cmd, confirm, func(ctx context.Context, editor *app.Editor) error {
				return adminDelete(ctx, editor, args[0], cmd.OutOrStdout())
			})
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.AddCommand(del)

	var shareCourse string
	var shareAdmin bool
	share := &cobra.Command{
		Use:   "share <quizId> --course N",
		Short: "Print the student link of a quiz",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(cmd, nil, func(ctx context.Context, editor *app.Editor) error {
				return adminShare(ctx, editor, args[0], shareCourse, shareAdmin, cmd.OutOrStdout())
			})
		},
	}
	share.Flags().StringVar(&shareCourse, "course", "", "course number")
	share.Flags().BoolVar(&shareAdmin, "admin", false, "link to an admin test run")
	cmd.AddCommand(share)

	var qrCourse, qrDir string
	qr := &cobra.Command{
		Use:   "qr <quizId> --course N",
		Short: "Download the QR code of a quiz link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEditor(cmd, nil, func(ctx context.Context, editor *app.Editor) error {
				return adminQR(ctx, editor, args[0], qrCourse, qrDir, cmd.OutOrStdout())
			})
		},
	}
	qr.Flags().StringVar(&qrCourse, "course", "", "course number")
	qr.Flags().StringVarP(&qrDir, "output", "o", ".", "directory to write the PNG to")
	cmd.AddCommand(qr)

	return cmd
}

func adminList(ctx context.Context, editor *app.Editor, out io.Writer) error {
	if err := editor.Refresh(ctx); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCREATED")
	for _, q := range editor.Quizzes() {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", q.ID, q.Title, q.CreatedAt)
	}
	return tw.Flush()
}

func adminShow(ctx context.Context, editor *app.Editor, rawID string, out io.Writer) error {
	if err := openQuiz(ctx, editor, rawID); err != nil {
		return err
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(editor.Form())
}

// adminSave creates the quiz when rawID is empty and updates it otherwise.
func adminSave(ctx context.Context, editor *app.Editor, rawID string, form app.QuizForm, out io.Writer) error {
	if rawID == "" {
		editor.CreateNew()
	} else if err := openQuiz(ctx, editor, rawID); err != nil {
		return err
	}
	*editor.Form() = form
	if err := editor.Save(ctx); err != nil {
		return err
	}
	if rawID == "" {
		fmt.Fprintf(out, "Quiz %q created.\n", form.Title)
	} else {
		fmt.Fprintf(out, "Quiz %s updated.\n", rawID)
	}
	return nil
}

func adminDelete(ctx context.Context, editor *app.Editor, rawID string, out io.Writer) error {
	if err := openQuiz(ctx, editor, rawID); err != nil {
		return err
	}
	deleted, err := editor.Delete(ctx)
	if err != nil {
		return err
	}
	if !deleted {
		fmt.Fprintln(out, "Nothing deleted.")
		return nil
	}
	fmt.Fprintf(out, "Quiz %s deleted.\n", rawID)
	return nil
}

func adminShare(ctx context.Context, editor *app.Editor, rawID, course string, admin bool, out io.Writer) error {
	if err := openQuiz(ctx, editor, rawID); err != nil {
		return err
	}
	link, err := editor.ShareURL(course, admin)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, link)
	return nil
}

func adminQR(ctx context.Context, editor *app.Editor, rawID, course, dir string, out io.Writer) error {
	if err := openQuiz(ctx, editor, rawID); err != nil {
		return err
	}
	img, err := editor.QRCode(ctx, course)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, img.Filename)
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		return fmt.Errorf("write qr code: %w", err)
	}
	fmt.Fprintf(out, "QR code saved to %s\n", path)
	return nil
}

func openQuiz(ctx context.Context, editor *app.Editor, rawID string) error {
	quizID, err := strconv.Atoi(rawID)
	if err != nil {
		return fmt.Errorf("invalid quiz id %q", rawID)
	}
	return editor.Open(ctx, quizID)
}

func readForm(path string) (app.QuizForm, error) {
	var form app.QuizForm
	data, err := os.ReadFile(path)
	if err != nil {
		return form, err
	}
	if err := yaml.Unmarshal(data, &form); err != nil {
		return form, fmt.Errorf("parse %s: %w", path, err)
	}
	return form, nil
}

// promptConfirmer asks on out and reads a y/N answer from in.
func promptConfirmer(in io.Reader, out io.Writer) app.Confirmer {
	reader := bufio.NewReader(in)
	return app.ConfirmFunc(func(prompt string) bool {
		fmt.Fprintf(out, "%s [y/N] ", prompt)
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	})
}
