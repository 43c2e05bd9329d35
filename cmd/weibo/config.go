package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type config struct {
	Proxy        string
	ProfileIndex int
	LogLevel     slog.Leveler
}

// loadConfig reads the environment, after loading .env when one exists.
func loadConfig() config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("Error loading .env file", "error", err.Error())
	}

	var cfg config
	cfg.Proxy = os.Getenv("WEIBO_PROXY")
	cfg.ProfileIndex, _ = strconv.Atoi(os.Getenv("WEIBO_PROFILE_INDEX"))

	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "ERROR"
	}
	cfg.LogLevel = parseLogLevel(logLevelStr)
	return cfg
}

func parseLogLevel(level string) slog.Leveler {
	levels := map[string]slog.Level{
		"ERROR":   slog.LevelError,
		"INFO":    slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"WARN":    slog.LevelWarn,
	}

	l, ok := levels[strings.ToUpper(level)]
	if !ok {
		l = slog.LevelError
	}

	return l
}
