package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"docquiz/internal/config"
	"docquiz/internal/domain"
	"docquiz/internal/dto"
	"docquiz/internal/logger"
	"docquiz/internal/server"
	"docquiz/internal/validation"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// generateCmd runs the pipeline once for a local document
var generateCmd = &cobra.Command{
	Use:   "generate <file>",
	Short: "Generate a quiz from a PDF or DOCX file",
	Example: `  quizgen generate lecture.pdf
  quizgen generate notes.docx --count 10 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logger.Sync()

		count, _ := cmd.Flags().GetInt("count")
		asJSON, _ := cmd.Flags().GetBool("json")

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runGenerate(ctx, cmd.OutOrStdout(), cfg, args[0], count, asJSON)
	},
}

func init() {
	generateCmd.Flags().IntP("count", "n", 0, "number of questions (default quiz.question_count)")
	generateCmd.Flags().Bool("json", false, "print the quiz as JSON")
}

func runGenerate(ctx context.Context, out io.Writer, cfg *config.Config, path string, count int, asJSON bool) error {
	countArg := ""
	if count != 0 {
		countArg = fmt.Sprint(count)
	}
	if _, errs := validation.NewValidator(cfg.Quiz.MaxQuestionCount).ValidateUpload(filepath.Base(path), countArg); len(errs) > 0 {
		return errs
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	components, err := server.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := components.Close(); err != nil {
			logger.Get().Warn("Error releasing components", zap.Error(err))
		}
	}()

	record, err := components.Service.CreateQuizFromDocument(ctx, &dto.CreateQuizRequest{
		Filename:      filepath.Base(path),
		Body:          file,
		QuestionCount: count,
	})
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(dto.NewQuizDetailResponse(record))
	}
	printQuiz(out, record)
	return nil
}

var optionLabels = []string{"A", "B", "C", "D"}

// printQuiz renders a quiz for the terminal, marking the correct option.
func printQuiz(out io.Writer, record *domain.QuizRecord) {
	title := color.New(color.FgCyan, color.Bold).SprintFunc()
	question := color.New(color.Bold).SprintFunc()
	correct := color.New(color.FgGreen, color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(out, "%s %s\n", title("Quiz"), record.ID)
	fmt.Fprintf(out, "%s (%d characters, %d questions)\n\n",
		record.SourceFilename, record.SourceTextLength, record.Quiz.TotalQuestions)

	for i, q := range record.Quiz.Questions {
		fmt.Fprintf(out, "%s %s\n", question(fmt.Sprintf("%d.", i+1)), question(q.Question))
		for j, option := range q.Options {
			line := fmt.Sprintf("   %s) %s", optionLabels[j], option)
			if j == q.CorrectAnswer {
				line = correct(line + "  ✓")
			}
			fmt.Fprintln(out, line)
		}
		if explanation := strings.TrimSpace(q.Explanation); explanation != "" {
			fmt.Fprintf(out, "   %s\n", faint(explanation))
		}
		fmt.Fprintln(out)
	}
}
