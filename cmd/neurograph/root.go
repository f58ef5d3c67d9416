package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/Ravou/Neurograph/internal/config"
	"github.com/Ravou/Neurograph/internal/graph"
	"github.com/Ravou/Neurograph/internal/llm/providers"
	"github.com/Ravou/Neurograph/internal/proposal"
	"github.com/Ravou/Neurograph/internal/resolver"
	"github.com/Ravou/Neurograph/internal/retrieval"
	"github.com/Ravou/Neurograph/internal/service"
	"github.com/Ravou/Neurograph/internal/store"
)

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "neurograph",
	Short: "Graph context engine for cloud-incident operations",
	Long: `Neurograph maintains a Neo4j-backed property graph of incidents,
services, resources, and people, and exposes keyword search, one-hop
expansion, idempotent upserts, and an LLM-assisted incident proposal
pipeline over it.`,
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the root command with signal-driven cancellation.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = os.Getenv("NEUROGRAPH_CONFIG")
	}
	if path == "" {
		path = "neurograph.yaml"
	}

	loaded, err := config.NewLoader().LoadWithDefaults(path)
	if err != nil {
		return err
	}
	cfg = loaded
	return nil
}

// runtime bundles the wired components behind the CLI commands.
type runtime struct {
	client  *graph.Neo4jClient
	store   store.Store
	engine  *retrieval.Engine
	service *service.Service
}

// connect wires client, store, engine, resolver, provider, pipeline, and
// service from the loaded configuration. Callers must run the returned cleanup when done.
func connect(ctx context.Context) (*runtime, func(), error) {
	logger := cfg.Logging.NewLogger()

	client, err := graph.NewNeo4jClient(cfg.Neo4j.ClientConfig())
	if err != nil {
		return nil, nil, err
	}
	if err := client.Connect(ctx); err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = client.Close(context.Background()) }

	var ctxStore store.Store = store.NewContextStore(client, logger)
	if cfg.Tracing.Enabled {
		ctxStore = store.NewTracedStore(ctxStore, otel.Tracer(cfg.Tracing.ServiceName))
	}
	engine := retrieval.NewEngine(ctxStore, logger)

	threshold := cfg.Retrieval.AcceptanceThreshold
	if threshold == 0 {
		threshold = resolver.DefaultThreshold
	}
	res, err := resolver.NewResolver(ctxStore, engine, threshold, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	providerCfg, err := cfg.LLM.DefaultProvider()
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	provider, err := providers.NewProvider(providerCfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	pipeline := proposal.NewPipeline(ctxStore, engine, res, provider, logger)

	return &runtime{
		client:  client,
		store:   ctxStore,
		engine:  engine,
		service: service.New(ctxStore, engine, pipeline, logger),
	}, cleanup, nil
}

// printJSON writes v to the command's stdout, indented.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to the configuration file (default neurograph.yaml)")

	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(relationsCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(proposeCmd)
}
