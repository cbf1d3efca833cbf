//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/mannadev/scriptura/internal/bootstrap"
	"github.com/mannadev/scriptura/internal/domain/readingplan"
	"github.com/mannadev/scriptura/internal/domain/versechat"
	"github.com/mannadev/scriptura/internal/infra/config"
	"github.com/mannadev/scriptura/internal/infra/llm/chatgpt"
	"github.com/mannadev/scriptura/internal/infra/scripture/bibleapi"
	httpiface "github.com/mannadev/scriptura/internal/interface/http"
	"github.com/mannadev/scriptura/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideChatGPTClient,
		provideScriptureClient,
		providePostgresPool,
		providePlanRepository,
		provideVerseChatConfig,
		provideVerseChatRepository,
		provideVerseChatStore,
		providePageSource,
		provideDevotionStore,
		provideDevotionService,
		readingplan.NewService,
		versechat.NewService,
		wire.Bind(new(readingplan.PassageClient), new(*bibleapi.Client)),
		wire.Bind(new(versechat.ChatClient), new(*chatgpt.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
