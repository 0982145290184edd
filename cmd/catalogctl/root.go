package main

import (
	"coder_edu_catalog/internal/catalog"
	"coder_edu_catalog/internal/content"
	"coder_edu_catalog/pkg/logger"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Validate, preview and publish course content",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "Log loader progress to stderr")

	root.AddCommand(newValidateCmd())
	root.AddCommand(newComposeCmd())
	root.AddCommand(newTreeCmd())
	root.AddCommand(newPublishCmd())
	root.AddCommand(newTokenCmd())
	return root
}

func cmdLogger(cmd *cobra.Command) *zap.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return logger.NewConsole(verbose)
}

// namingFlag 解析 --naming，空值使用默认策略
func namingFlag(cmd *cobra.Command) (catalog.NamingPolicy, error) {
	v, _ := cmd.Flags().GetString("naming")
	if v == "" {
		return catalog.NamingWarn, nil
	}
	p := catalog.NamingPolicy(v)
	if !p.Valid() {
		return "", fmt.Errorf("unknown naming policy %q (want off, warn or strict)", v)
	}
	return p, nil
}

func loadDir(cmd *cobra.Command, dir string) (*catalog.Catalog, *catalog.Report, error) {
	policy, err := namingFlag(cmd)
	if err != nil {
		return nil, nil, err
	}
	loader := content.NewLoader(content.NewDirSource(dir), policy, cmdLogger(cmd))
	return loader.Load(cmd.Context())
}
