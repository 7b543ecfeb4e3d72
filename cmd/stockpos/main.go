package main

import (
	"context"
	"time"

	"github.com/mrodal/stockpos/config"
	"github.com/mrodal/stockpos/internal/app"
	"github.com/mrodal/stockpos/pkg/sigctx"
)

const closeTimeout = 5 * time.Second

func main() {
	sigCtx, closeApp := sigctx.NotifyContext()
	defer closeApp()

	cfg := config.Load()
	cfg.Print()

	stockposService := app.New(sigCtx, cfg)

	stockposService.Run(closeApp)

	<-sigCtx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	stockposService.Close(ctx)
}
