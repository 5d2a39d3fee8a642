//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"

	"clipscribe/internal/api/server"
	"clipscribe/internal/api/v1/services"
	"clipscribe/internal/config"
)

// InitializeApp builds the full application graph from the environment.
func InitializeApp() (*App, func(), error) {
	wire.Build(
		config.Load,
		NewLogger,
		OpenDatabase,
		NewUserRepository,
		NewTranscriptRepository,
		NewDownloader,
		NewNormalizer,
		NewTranscriber,
		NewPipeline,
		NewCarrierGateways,
		NewEmailSender,
		NewSMSSender,
		NewWhatsAppSender,
		services.NewAuthService,
		NewTranscriptService,
		NewDeliveryService,
		NewHandlers,
		NewServerConfig,
		server.NewServer,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
