//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/rehabscope/rehabscope/internal/bootstrap"
	"github.com/rehabscope/rehabscope/internal/domain/analysis"
	"github.com/rehabscope/rehabscope/internal/domain/estimate"
	"github.com/rehabscope/rehabscope/internal/infra/config"
	httpiface "github.com/rehabscope/rehabscope/internal/interface/http"
	"github.com/rehabscope/rehabscope/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAnalysisConfig,
		provideRegistry,
		provideResultStore,
		provideCostSource,
		estimate.NewCostCache,
		analysis.NewService,
		estimate.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
