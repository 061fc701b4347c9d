// Command todozi is the CLI surface over the content-capture engine: `cnt`
// runs the tdz_cnt pipeline, `migrate` moves legacy tasks forward, `extract`
// and `strategy` call the remote extraction API, and `search` queries the
// embedding index.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"todozi/internal/config"
	"todozi/internal/embedding"
	"todozi/internal/extractclient"
	"todozi/internal/logging"
	"todozi/internal/migration"
	"todozi/internal/orchestrator"
	"todozi/internal/session"
	"todozi/internal/store"
)

var (
	configPath string
	verbose    bool
	logger     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "todozi",
	Short: "Todozi - conversational content-capture engine",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.Init(verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to tdz.hlx config file (defaults to $HOME/.todozi/tdz.hlx)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(cntCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(strategyCmd())
	rootCmd.AddCommand(searchCmd())
}

func loadConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		home := os.Getenv("HOME")
		path = home + "/.todozi/tdz.hlx"
	}
	return config.Load(path)
}

func openOrchestrator(cfg config.Config) (*orchestrator.Orchestrator, error) {
	root, err := cfg.ResolveRoot()
	if err != nil {
		return nil, err
	}
	st, err := store.New(root)
	if err != nil {
		return nil, err
	}
	engine, err := embedding.NewEngine(cfg.Embedding)
	if err != nil {
		return nil, err
	}
	svc := embedding.NewService(cfg.Embedding, engine)
	return orchestrator.New(st, svc, session.NewMemoryState()), nil
}

func cntCmd() *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "cnt [content]",
		Short: "Run the tdz_cnt content-capture pipeline over a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			orch, err := openOrchestrator(cfg)
			if err != nil {
				return err
			}
			resp := orch.Process(context.Background(), args[0], sessionID)
			data, err := orchestrator.MarshalResponse(resp)
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session-id", "", "session id to attribute this message to")
	return cmd
}

func migrateCmd() *cobra.Command {
	var dryRun, force, cleanup bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate legacy per-status task collections into per-project containers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			root, err := cfg.ResolveRoot()
			if err != nil {
				return err
			}
			st, err := store.New(root)
			if err != nil {
				return err
			}
			engine, err := embedding.NewEngine(cfg.Embedding)
			if err != nil {
				return err
			}
			svc := embedding.NewService(cfg.Embedding, engine)
			m := migration.New(st, svc)
			report, err := m.Run(context.Background(), migration.Options{DryRun: dryRun, ForceOverwrite: force, CleanupEmpty: cleanup})
			if err != nil {
				return err
			}
			data, _ := json.MarshalIndent(report, "", "  ")
			fmt.Println(string(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would migrate without writing anything")
	cmd.Flags().BoolVar(&force, "force-overwrite", false, "re-migrate projects that already have a container")
	cmd.Flags().BoolVar(&cleanup, "cleanup", false, "clear legacy files once migration succeeds")
	return cmd
}

func extractCmd() *cobra.Command {
	return remoteExtractCmd("extract", extractclient.EndpointPlan, "Extract tasks/memories/ideas via the remote plan endpoint")
}

func strategyCmd() *cobra.Command {
	return remoteExtractCmd("strategy", extractclient.EndpointStrategic, "Extract via the remote strategic endpoint")
}

func remoteExtractCmd(use string, endpoint extractclient.Endpoint, short string) *cobra.Command {
	var format, userID, apiKey, baseURL string
	cmd := &cobra.Command{
		Use:   use + " [content]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if baseURL == "" {
				baseURL = "https://todozi.com"
			}
			client := extractclient.New(baseURL, apiKey)
			resp, err := client.Extract(context.Background(), endpoint, extractclient.Request{
				Content: args[0], Model: "gpt-oss:120b", Language: "english", UserID: userID,
			})
			if err != nil {
				return err
			}
			root, err := cfg.ResolveRoot()
			if err != nil {
				return err
			}
			st, err := store.New(root)
			if err != nil {
				return err
			}
			engine, err := embedding.NewEngine(cfg.Embedding)
			if err != nil {
				return err
			}
			svc := embedding.NewService(cfg.Embedding, engine)
			if _, err := extractclient.Feed(context.Background(), st, svc, userID, resp); err != nil {
				return err
			}

			switch format {
			case "csv":
				fmt.Print(extractclient.FormatCSV(resp))
			case "checklist":
				fmt.Print(extractclient.FormatChecklist(resp))
			default:
				fmt.Print(extractclient.FormatMarkdown(resp))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "markdown", "output format: markdown, csv, or checklist")
	cmd.Flags().StringVar(&userID, "user-id", "", "user id to attribute extracted entities to")
	cmd.Flags().StringVar(&apiKey, "api-key", os.Getenv("TODOZI_API_KEY"), "bearer token for the remote extraction API")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "remote API base URL (default https://todozi.com)")
	return cmd
}

func searchCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Run a semantic search over the embedding index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			engine, err := embedding.NewEngine(cfg.Embedding)
			if err != nil {
				return err
			}
			svc := embedding.NewService(cfg.Embedding, engine)
			results, err := svc.SemanticSearch(context.Background(), args[0], limit)
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Printf("%.4f\t%s\t%s\n", r.Score, r.Entry.ID, r.Entry.Text)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of results")
	return cmd
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
