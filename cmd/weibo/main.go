// Command weibo extracts profiles, feeds, hot search and search results from
// m.weibo.cn and prints them as JSON.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/anatolykoptev/go-weibo"
)

func main() {
	cfg := loadConfig()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	newClient := func() (*weibo.Client, error) {
		return weibo.NewClient(weibo.ClientConfig{
			Proxy:        cfg.Proxy,
			ProfileIndex: cfg.ProfileIndex,
		})
	}

	if err := newRootCmd(newClient).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
