package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tree <content-dir>",
		Short: "Print the ordered table of contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, _, err := loadDir(cmd, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, c := range cat.Courses() {
				fmt.Fprintf(out, "%s  %s\n", c.ID, c.Title)
				for i, m := range c.Modules() {
					fmt.Fprintf(out, "  %d. %s  %s\n", i+1, m.ID, m.Title)
					for j, l := range m.Lessons() {
						fmt.Fprintf(out, "     %d.%d %s  %s\n", i+1, j+1, l.ID, l.Title)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().String("naming", "warn", "Naming policy for ids vs file names: off, warn or strict")
	return cmd
}
