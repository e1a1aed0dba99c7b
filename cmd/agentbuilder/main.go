package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mpataki/agentbuilder/internal/builder"
	"github.com/mpataki/agentbuilder/internal/catalog"
	"github.com/mpataki/agentbuilder/internal/config"
	"github.com/mpataki/agentbuilder/internal/logger"
	"github.com/mpataki/agentbuilder/internal/script"
	"github.com/mpataki/agentbuilder/internal/storage"
	"github.com/mpataki/agentbuilder/internal/studio"
	"github.com/mpataki/agentbuilder/internal/tui"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "agentbuilder",
		Short: "Build AI agents through a guided conversation",
		Long: "Agent Builder walks you through describing an agent, suggests a type, " +
			"conversation starters and knowledge sources, and lets you preview and publish it.",
		RunE:         runTUI,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newBuildCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newShowCommand())
	rootCmd.AddCommand(newChatCommand())
	rootCmd.AddCommand(newEditCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newDeleteCommand())
	rootCmd.AddCommand(newClassifyCommand())
	rootCmd.AddCommand(newSuggestCommand())
	rootCmd.AddCommand(newCatalogCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// env is everything a command needs, opened from config.
type env struct {
	cfg   *config.Config
	store *storage.Storage
	cats  *catalog.Static
	svc   *studio.Service
	log   *zap.Logger
}

func (e *env) Close() {
	if e.store != nil {
		e.store.Close()
	}
	logger.Sync()
}

// openEnv loads config, logging and catalogs. The database is opened only
// when withStore is set. Replies are paced only in the TUI.
func openEnv(withStore, paced bool) (*env, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	log, err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise logging: %w", err)
	}

	cats, err := catalog.LoadAll(catalog.Builtin(), cfg.CatalogDirs())
	if err != nil {
		return nil, fmt.Errorf("failed to load catalogs: %w", err)
	}

	e := &env{cfg: cfg, cats: cats, log: log}
	if !withStore {
		return e, nil
	}

	store, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	e.store = store

	opts := []studio.Option{
		studio.WithExportDir(cfg.ExportDir),
		studio.WithLogger(log.Named("studio")),
	}
	if paced {
		opts = append(opts, studio.WithPacer(cfg.Pacer()))
	}
	if cfg.ScriptPath != "" {
		rt, err := script.Load(cfg.ScriptPath, script.WithLogger(log.Named("script")))
		if err != nil {
			store.Close()
			return nil, err
		}
		opts = append(opts, studio.WithScript(rt))
	}

	e.svc = studio.New(store, builder.CatalogsFrom(cats), opts...)
	return e, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	e, err := openEnv(true, true)
	if err != nil {
		return err
	}
	defer e.Close()

	app := tui.NewApp(e.svc, e.log.Named("tui"))
	p := tea.NewProgram(app, tea.WithAltScreen())

	_, err = p.Run()
	return err
}
