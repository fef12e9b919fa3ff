package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/examhack/examhack/internal/model"
)

var scrapeExamType string

var scrapeCmd = &cobra.Command{
	Use:   "scrape <course-code>",
	Short: "Download papers for a course without analyzing them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, err := model.NewCourseQuery(args[0], scrapeExamType)
		if err != nil {
			return err
		}

		pipe, _, err := buildPipeline(cfg)
		if err != nil {
			return err
		}

		paths, err := pipe.Scrape(cmd.Context(), query)
		if err != nil {
			return err
		}

		for _, p := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeExamType, "exam-type", "ALL", "exam category: ALL, EST, MST, AUX, SUMMER_MST, SUMMER_EST")
	rootCmd.AddCommand(scrapeCmd)
}
