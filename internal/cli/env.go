package cli

import (
	"fmt"

	"github.com/hyprmin-io/hyprmin/internal/config"
	"github.com/hyprmin-io/hyprmin/internal/hypr"
	"github.com/hyprmin-io/hyprmin/internal/stack"
)

// env bundles the pieces every command needs: the effective configuration,
// the shared stack store, and a live compositor client.
type env struct {
	cfg    *config.Config
	store  *stack.Store
	client *hypr.Client
}

func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	stackPath, err := config.StackFile(cfg.StackBaseDirectory)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:    cfg,
		store:  stack.NewStore(stackPath),
		client: hypr.NewLiveClient(),
	}, nil
}
