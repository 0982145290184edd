package main

import (
	"coder_edu_catalog/internal/catalog"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <content-dir>",
		Short: "Load a content tree and report consistency problems",
		Long: "Loads every course, module and lesson document under the directory and prints\n" +
			"the consistency report. Exits non-zero when the report contains errors.",
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
	cmd.Flags().String("naming", "warn", "Naming policy for ids vs file names: off, warn or strict")
	cmd.Flags().Bool("json", false, "Print the report as JSON")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	cat, report, loadErr := loadDir(cmd, args[0])
	if report == nil {
		return loadErr
	}
	report.Sort()

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printReport(out, report)
		if cat != nil {
			s := cat.Stats()
			fmt.Fprintf(out, "%d courses, %d modules, %d lessons, %d quiz questions, %d assignments\n",
				s.Courses, s.Modules, s.Lessons, s.QuizQuestions, s.Assignments)
		}
		fmt.Fprintf(out, "%d errors, %d warnings\n", len(report.Errors()), len(report.Warnings()))
	}

	if loadErr != nil {
		return fmt.Errorf("content is not valid: %d errors", len(report.Errors()))
	}
	return nil
}

func printReport(w io.Writer, r *catalog.Report) {
	for _, v := range r.Violations {
		path := v.Path
		if path == "" {
			path = "."
		}
		fmt.Fprintf(w, "%-7s %-20s %s: %s\n", strings.ToUpper(string(v.Severity)), v.Kind, path, v.Message)
	}
}
