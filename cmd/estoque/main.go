package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/estoque-wms/internal/application/inventory"
	"github.com/jhoicas/estoque-wms/internal/infrastructure/store"
	"github.com/jhoicas/estoque-wms/pkg/config"
	"github.com/jhoicas/estoque-wms/pkg/logger"
)

// cli estado compartido por los subcomandos.
type cli struct {
	open  func(ctx context.Context) (*store.Repositories, *logger.Logger, error)
	repos *store.Repositories
	svc   *inventory.Service
}

func main() {
	c := &cli{open: openFromConfig}
	err := newRootCommand(c).Execute()
	if c.repos != nil {
		_ = c.repos.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}

// openFromConfig lee la configuración (env / .env) y abre el almacenamiento configurado.
func openFromConfig(ctx context.Context) (*store.Repositories, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})
	repos, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("abrir almacenamiento %s: %w", cfg.Store.Driver, err)
	}
	return repos, log, nil
}

func newRootCommand(c *cli) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "estoque",
		Short:        "Controle de estoque por endereço e lote",
		Long:         "Registra entradas, saídas, transferências e alterações de lote; importa e exporta planilhas.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["offline"] == "true" {
				return nil
			}
			return c.init(cmd.Context())
		},
	}

	rootCmd.AddCommand(newEntradaCommand(c))
	rootCmd.AddCommand(newSaidaCommand(c))
	rootCmd.AddCommand(newTransferirCommand(c))
	rootCmd.AddCommand(newLoteCommand(c))
	rootCmd.AddCommand(newImportarCommand(c))
	rootCmd.AddCommand(newExportarCommand(c))
	rootCmd.AddCommand(newEstoqueCommand(c))
	rootCmd.AddCommand(newLotesCommand(c))
	rootCmd.AddCommand(newHistoricoCommand(c))
	rootCmd.AddCommand(newLimparEstoqueCommand(c))
	rootCmd.AddCommand(newLimparHistoricoCommand(c))
	rootCmd.AddCommand(newHashSenhaCommand())
	return rootCmd
}

func (c *cli) init(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	repos, log, err := c.open(ctx)
	if err != nil {
		return err
	}
	c.repos = repos
	c.svc = inventory.NewService(repos.Stock, repos.History, inventory.WithLogger(log))
	return c.svc.Load(ctx)
}
