// Command telegram-mcp serves the Telegram tool set over MCP stdio.
// All logging goes to stderr; stdout belongs to the protocol.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/telegram-connector/telegram-mcp/src/config"
	"github.com/telegram-connector/telegram-mcp/src/mcpserver"
	"github.com/telegram-connector/telegram-mcp/src/ratelimit"
	"github.com/telegram-connector/telegram-mcp/src/telegram"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: $TELEGRAM_MCP_CONFIG, then the user config dir)")
	envFile := flag.String("env", "", "optional .env file loaded before config expansion")
	httpAddr := flag.String("http", "", "serve MCP over streamable HTTP on this address instead of stdio")
	flag.Parse()

	logger := log.New(os.Stderr, "telegram-mcp ", log.LstdFlags)

	if err := run(*configPath, *envFile, *httpAddr, logger); err != nil {
		logger.Fatalf("fatal: %v", err)
	}
}

func run(configPath, envFile, httpAddr string, logger *log.Logger) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}

	path, err := resolveConfigPath(configPath)
	if err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	client, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	limiter := ratelimit.NewLimiter(cfg.RateLimiting.MaxTokens, cfg.RateLimiting.RefillRate)
	server := mcpserver.NewServer(client, limiter, logger.Printf)

	logger.Printf("starting telegram-mcp %s (provider=%s, bucket=%.0f tokens @ %.1f/s)",
		mcpserver.Version, cfg.Provider.Type, cfg.RateLimiting.MaxTokens, cfg.RateLimiting.RefillRate)

	if httpAddr != "" {
		logger.Printf("serving MCP over HTTP on %s", httpAddr)
		return server.ServeHTTP(httpAddr)
	}
	return server.ServeStdio()
}

// resolveConfigPath prefers the flag, then the environment, then the
// platform config directory. The lookup lives here in main on purpose: the
// packages below take explicit paths.
func resolveConfigPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv("TELEGRAM_MCP_CONFIG"); env != "" {
		return env, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("determine config directory: %w", err)
	}
	return filepath.Join(base, "telegram-connector", "config.yaml"), nil
}

func buildProvider(cfg *config.Config) (telegram.Client, error) {
	switch cfg.Provider.Type {
	case config.ProviderStatic:
		return telegram.LoadStaticClient(cfg.Provider.DataFile)
	case config.ProviderMTProto:
		return nil, fmt.Errorf("the mtproto connector is not bundled in this build; configure provider.type: static")
	default:
		return nil, fmt.Errorf("unknown provider type %q", cfg.Provider.Type)
	}
}
