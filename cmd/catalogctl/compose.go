package main

import (
	"coder_edu_catalog/internal/content"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newComposeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compose <lesson.yaml>",
		Short: "Print the lesson body as the server would deliver it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			lesson, err := content.ParseLesson(filepath.Base(args[0]), data)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), lesson.Content)
			return err
		},
	}
}
