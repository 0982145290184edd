package main

import (
	"coder_edu_catalog/internal/catalog"
	"coder_edu_catalog/internal/config"
	"coder_edu_catalog/internal/content"
	"coder_edu_catalog/internal/repository"
	"coder_edu_catalog/internal/service"
	"coder_edu_catalog/internal/util"
	"coder_edu_catalog/pkg/database"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Load content with the server configuration and store it in the database",
		Args:  cobra.NoArgs,
		RunE:  runPublish,
	}
	cmd.Flags().String("config", "configs", "Directory containing config.yaml")
	cmd.Flags().String("root", "", "Content directory (overrides content.root)")
	return cmd
}

func runPublish(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return err
	}
	if root, _ := cmd.Flags().GetString("root"); root != "" {
		cfg.Content.Source = config.ContentSourceDir
		cfg.Content.Root = root
	}

	db, err := database.InitDB(&cfg.Database, "release")
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	src, err := content.NewSource(&cfg.Content)
	if err != nil {
		return err
	}
	log := cmdLogger(cmd)
	loader := content.NewLoader(src, catalog.NamingPolicy(cfg.Content.NamingPolicy), log)
	svc := service.NewCatalogService(loader, repository.NewCatalogRepository(db), nil, log)

	if _, err := svc.Reload(cmd.Context()); err != nil {
		printReport(cmd.ErrOrStderr(), lastReport(svc))
		return err
	}

	out := cmd.OutOrStdout()
	rev, err := svc.Publish(cmd.Context())
	if errors.Is(err, util.ErrNothingToPublish) {
		fmt.Fprintln(out, "catalog unchanged, nothing to publish")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "published revision %s (%d courses, %d modules, %d lessons, checksum %s)\n",
		rev.ID, rev.Courses, rev.Modules, rev.Lessons, rev.Checksum[:12])
	return nil
}

func lastReport(svc *service.CatalogService) *catalog.Report {
	view := svc.LastReport()
	r := &catalog.Report{}
	r.Add(view.Errors...)
	r.Add(view.Warnings...)
	return r
}
