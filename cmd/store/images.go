package main

import (
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/storefront/internal/catalog/repo"
	"github.com/Skotchmaster/storefront/internal/catalog/service"
	"github.com/Skotchmaster/storefront/internal/media"
)

var imagesDeriveFlags = map[string]cobraflags.Flag{
	envFileFlag: newEnvFileFlag(),
}

func newImagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Maintain product images",
	}

	derive := &cobra.Command{
		Use:   "derive",
		Short: "Generate missing medium and thumbnail images",
		Long: `Generate the medium and thumbnail copies for every product that has an
original image but is missing one of them. Existing copies are left alone.`,
		Args: cobra.NoArgs,
		RunE: imagesDeriveCommand,
	}
	cobraflags.RegisterMap(derive, imagesDeriveFlags)

	cmd.AddCommand(derive)
	return cmd
}

func imagesDeriveCommand(cmd *cobra.Command, _ []string) error {
	cfg, logger, gdb, err := setup(imagesDeriveFlags)
	if err != nil {
		return err
	}
	defer closeDB(logger, gdb)

	storage := media.NewLocalStorage(cfg.MediaRoot, cfg.MediaURL)
	svc := &service.CatalogService{
		Repo:    &repo.GormRepo{DB: gdb},
		Deriver: &media.Deriver{Storage: storage},
	}

	n, err := svc.DeriveMissingImages(cmd.Context())
	if err != nil {
		logger.Error("images_derive_error", "derived", n, "error", err)
		return err
	}

	logger.Info("images_derived", "count", n)
	fmt.Fprintf(cmd.OutOrStdout(), "derived images for %d products\n", n)
	return nil
}
