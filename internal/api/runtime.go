package api

import (
	"github.com/intakeworks/storygate/internal/config"
	"github.com/intakeworks/storygate/internal/infrastructure"
	"github.com/intakeworks/storygate/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Intake     config.IntakeConfig
	AI         config.AIConfig
	Notify     config.NotifyConfig
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Pagination: cfg.API.Pagination,
		Intake:     cfg.Intake,
		AI:         cfg.AI,
		Notify:     cfg.Notify,
	}
}
