package main

import (
	stdLog "log"
	"os"
	"time"

	"github.com/Astemirdum/library-lending/lending/app"
	"github.com/Astemirdum/library-lending/lending/config"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// @title Library Lending API
// @version 1.0
// @description Borrowing lifecycle, inventory and fines of a library.
// @BasePath /api/v1
func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLog.Fatal("load envs from .env ", zap.Error(err))
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)

	if err := app.Run(cfg); err != nil {
		stdLog.Fatal("app.Run ", zap.Error(err))
	}
}
