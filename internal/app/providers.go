package app

import (
	"database/sql"

	"go.uber.org/zap"

	"clipscribe/internal/api/server"
	"clipscribe/internal/api/v1/handlers"
	"clipscribe/internal/api/v1/routes"
	"clipscribe/internal/api/v1/services"
	"clipscribe/internal/app/acquire"
	"clipscribe/internal/app/audio"
	"clipscribe/internal/app/notify"
	"clipscribe/internal/app/pipeline"
	"clipscribe/internal/app/repository"
	"clipscribe/internal/app/repository/pg"
	"clipscribe/internal/app/repository/sqlite"
	"clipscribe/internal/app/transcriber"
	"clipscribe/internal/app/transcriber/whisper"
	"clipscribe/internal/config"
	"clipscribe/internal/logger"
)

// NewLogger builds the process logger. Development mode gets the colored
// console encoder.
func NewLogger(cfg *config.Config) (*zap.SugaredLogger, func(), error) {
	zl, err := logger.New(cfg.Environment != "production")
	if err != nil {
		return nil, nil, err
	}
	return zl.Sugar(), func() { _ = zl.Sync() }, nil
}

// OpenDatabase opens the configured database and ensures its schema.
func OpenDatabase(cfg *config.Config) (*sql.DB, func(), error) {
	var (
		db  *sql.DB
		err error
	)
	switch cfg.DBDriver {
	case "postgres":
		db, err = pg.Open(cfg.DatabaseURL)
	default:
		db, err = sqlite.Open(cfg.DatabaseURL)
	}
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = db.Close() }, nil
}

// NewUserRepository selects the user repository for the configured driver.
func NewUserRepository(cfg *config.Config, db *sql.DB) repository.UserRepository {
	if cfg.DBDriver == "postgres" {
		return pg.NewUserRepo(db)
	}
	return sqlite.NewUserRepo(db)
}

// NewTranscriptRepository selects the transcript repository for the
// configured driver.
func NewTranscriptRepository(cfg *config.Config, db *sql.DB) repository.TranscriptRepository {
	if cfg.DBDriver == "postgres" {
		return pg.NewTranscriptRepo(db)
	}
	return sqlite.NewTranscriptRepo(db)
}

// NewDownloader builds the yt-dlp downloader.
func NewDownloader(cfg *config.Config, log *zap.SugaredLogger) pipeline.Downloader {
	return acquire.NewDownloader(cfg.YTDLPPath, cfg.MaxFetchBytes, log)
}

// NewNormalizer builds the ffmpeg normalizer.
func NewNormalizer(cfg *config.Config, log *zap.SugaredLogger) pipeline.Normalizer {
	return audio.NewNormalizer(cfg.FFmpegPath, log)
}

// NewTranscriber builds the Whisper API transcriber.
func NewTranscriber(cfg *config.Config) transcriber.Transcriber {
	return whisper.New(cfg.OpenAIAPIKey, cfg.WhisperModel)
}

// NewPipeline builds the transcription pipeline.
func NewPipeline(
	d pipeline.Downloader,
	n pipeline.Normalizer,
	t transcriber.Transcriber,
	transcripts repository.TranscriptRepository,
	cfg *config.Config,
	log *zap.SugaredLogger,
) *pipeline.Pipeline {
	return pipeline.New(d, n, t, transcripts, cfg.DownloadDir, cfg.PipelineTimeout, log)
}

// NewCarrierGateways loads the carrier gateway table.
func NewCarrierGateways() (map[string]string, error) {
	return config.LoadCarrierGateways()
}

// NewEmailSender builds the SMTP sender.
func NewEmailSender(cfg *config.Config, log *zap.SugaredLogger) *notify.EmailSender {
	return notify.NewEmailSender(cfg.SMTP, log)
}

// NewSMSSender builds the carrier-gateway SMS sender on top of email.
func NewSMSSender(email *notify.EmailSender, gateways map[string]string) *notify.SMSSender {
	return notify.NewSMSSender(email, gateways)
}

// NewWhatsAppSender builds the Twilio WhatsApp sender.
func NewWhatsAppSender(cfg *config.Config, log *zap.SugaredLogger) *notify.WhatsAppSender {
	return notify.NewWhatsAppSender(cfg.Twilio, log)
}

// NewTranscriptService wires the pipeline behind the transcript service.
func NewTranscriptService(p *pipeline.Pipeline, transcripts repository.TranscriptRepository) *services.TranscriptService {
	return services.NewTranscriptService(p, transcripts)
}

// NewDeliveryService wires the concrete channels into the delivery service.
func NewDeliveryService(
	transcripts repository.TranscriptRepository,
	email *notify.EmailSender,
	sms *notify.SMSSender,
	whatsapp *notify.WhatsAppSender,
	log *zap.SugaredLogger,
) *services.DeliveryService {
	return services.NewDeliveryService(transcripts, email, sms, whatsapp, log)
}

// NewHandlers bundles the route handlers.
func NewHandlers(
	auth *services.AuthService,
	transcripts *services.TranscriptService,
	delivery *services.DeliveryService,
	users repository.UserRepository,
	cfg *config.Config,
) *routes.Handlers {
	return &routes.Handlers{
		Auth:       handlers.NewAuthHandler(auth, users),
		Transcribe: handlers.NewTranscribeHandler(transcripts, cfg.MaxFetchBytes),
		Transcript: handlers.NewTranscriptHandler(transcripts),
		Send:       handlers.NewSendHandler(delivery),
	}
}

// NewServerConfig maps the process configuration onto the HTTP server.
func NewServerConfig(cfg *config.Config) server.Config {
	return server.Config{
		Host:          cfg.Host,
		Port:          cfg.Port,
		Environment:   cfg.Environment,
		SessionSecret: cfg.SessionSecret,
	}
}
