// Package app assembles the application object graph.
package app

import (
	"database/sql"

	"go.uber.org/zap"

	"clipscribe/internal/api/server"
	"clipscribe/internal/config"
)

// App bundles the running application's top-level pieces. The cleanup
// function returned by InitializeApp closes the database and flushes logs.
type App struct {
	Config *config.Config
	Logger *zap.SugaredLogger
	DB     *sql.DB
	Server *server.Server
}
