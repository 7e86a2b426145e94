package main

import (
	stdLog "log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Astemirdum/bookshelf/gateway/app"
	"github.com/Astemirdum/bookshelf/gateway/config"
)

//go:generate go run github.com/swaggo/swag/cmd/swag init -g cmd/gateway/main.go -d ../.. -o ../../swagger --parseInternal

// @title Bookshelf gateway
// @version 1.0
// @description Backend for the bookshelf web client: catalog browsing, reading lists, reviews and accounts.
// @BasePath /
func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLog.Fatal("load envs from .env ", zap.Error(err))
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)

	app.Run(cfg)
}
