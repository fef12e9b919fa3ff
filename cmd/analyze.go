package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/examhack/examhack/internal/model"
	"github.com/examhack/examhack/internal/render"
)

var (
	analyzeExamType string
	analyzeOutput   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <course-code>",
	Short: "Retrieve, extract and analyze papers for a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, err := model.NewCourseQuery(args[0], analyzeExamType)
		if err != nil {
			return err
		}

		pipe, _, err := buildPipeline(cfg)
		if err != nil {
			return err
		}

		result, fromCache, err := pipe.Run(cmd.Context(), query)
		if err != nil {
			return err
		}
		zap.L().Info("analysis complete",
			zap.String("course", query.Code),
			zap.Bool("from_cache", fromCache),
			zap.Int("top_questions", len(result.TopQuestions)),
		)

		guide := render.StudyGuide(query.Code, result)
		out := analyzeOutput
		if out == "" {
			out = render.Filename(query.Code)
		}
		if out == "-" {
			fmt.Fprint(cmd.OutOrStdout(), guide)
			return nil
		}
		if err := os.WriteFile(out, []byte(guide), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeExamType, "exam-type", "ALL", "exam category: ALL, EST, MST, AUX, SUMMER_MST, SUMMER_EST")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "study guide output path, - for stdout")
	rootCmd.AddCommand(analyzeCmd)
}
