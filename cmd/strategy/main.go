package main

import (
	"context"
	"flag"
	"log"

	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"github.com/ctorgovnik/FINM32500-assignment8/internal/feed"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/obs"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/om"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/ops"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/pricebook"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/strategy"
)

// The strategy process reads prices out of the shared store, listens to
// the news feed, fuses both channels and submits agreeing trades to the
// order router.
func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config")
	flag.Parse()

	cfg, err := ops.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %+v", err)
	}
	metrics := obs.Setup("trading.strategy", cfg.Obs.MetricsAddr, cfg.Obs.PyroscopeAddr)

	store, err := pricebook.AttachWithRetry(pricebook.Config{
		Name:    cfg.PriceBook.Name,
		Symbols: cfg.Symbols,
		Dir:     cfg.PriceBook.Dir,
	}, cfg.PriceBook.AttachRetries, cfg.PriceBook.AttachDelay)
	if err != nil {
		log.Fatalf("price store attach failed: %+v", err)
	}

	orderClient := om.NewClient(cfg.OrderManager.Host, cfg.OrderManager.Port, cfg.Delim())
	if err := orderClient.Connect(); err != nil {
		log.Fatalf("order router connect failed: %+v", err)
	}

	crossover := strategy.NewCrossover(cfg.Strategy.ShortWindow, cfg.Strategy.LongWindow, cfg.Strategy.Quantity)
	news := strategy.NewNews(cfg.Strategy.BearishThreshold, cfg.Strategy.BullishThreshold)
	combiner, err := strategy.NewCombiner(crossover, news, orderClient, cfg.Delim(), metrics)
	if err != nil {
		log.Fatalf("combiner failed: %+v", err)
	}

	feedClient, err := feed.NewClient(feed.ClientConfig{
		Host:      cfg.Gateway.Host,
		Channels:  map[string]int{"news": cfg.Gateway.NewsPort},
		Delimiter: cfg.Delim(),
		Metrics:   metrics,
	})
	if err != nil {
		log.Fatalf("feed connect failed: %+v", err)
	}
	err = feedClient.Subscribe("news", func(payload []byte) {
		if err := combiner.OnNews(payload); err != nil {
			logs.Errorf("strategy: drop news frame %q, err: %+v", payload, err)
			metrics.FrameDropped("news")
		}
	})
	if err != nil {
		log.Fatalf("subscribe failed: %+v", err)
	}
	feedClient.Run()

	ctx, cancel := context.WithCancel(context.Background())
	poller := strategy.NewPoller(store, cfg.Symbols, cfg.Strategy.PollInterval, combiner)
	go poller.Run(ctx)

	<-sys.Shutdown()
	cancel()
	feedClient.Close()
	orderClient.Close()
	if err := store.Close(); err != nil {
		logs.Errorf("strategy: close store, err: %+v", err)
	}
	logs.Info("strategy: bye")
}
