package main

import (
	"flag"
	"log"

	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"github.com/ctorgovnik/FINM32500-assignment8/internal/feed"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/model"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/obs"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/ops"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/pricebook"
)

// The pricebook process owns the shared price segment: it creates the
// segment, consumes the market data feed and publishes every tick into
// the store for the strategy process to poll.
func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config")
	flag.Parse()

	cfg, err := ops.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %+v", err)
	}
	metrics := obs.Setup("trading.pricebook", cfg.Obs.MetricsAddr, cfg.Obs.PyroscopeAddr)

	store, err := pricebook.Create(pricebook.Config{
		Name:    cfg.PriceBook.Name,
		Symbols: cfg.Symbols,
		Dir:     cfg.PriceBook.Dir,
	})
	if err != nil {
		log.Fatalf("price store create failed: %+v", err)
	}

	client, err := feed.NewClient(feed.ClientConfig{
		Host: cfg.Gateway.Host,
		Channels: map[string]int{
			"market_data": cfg.Gateway.MDPort,
			"news":        cfg.Gateway.NewsPort,
		},
		Delimiter: cfg.Delim(),
		Metrics:   metrics,
	})
	if err != nil {
		log.Fatalf("feed connect failed: %+v", err)
	}

	delim := cfg.Delim()
	err = client.Subscribe("market_data", func(payload []byte) {
		update, err := model.ParsePriceUpdate(payload, delim)
		if err != nil {
			logs.Errorf("pricebook: drop frame %q, err: %+v", payload, err)
			metrics.FrameDropped("market_data")
			return
		}
		if err := store.Update(update.Symbol, update.Price, update.Timestamp); err != nil {
			return
		}
		metrics.SetLastPrice(update.Symbol, update.Price)
	})
	if err != nil {
		log.Fatalf("subscribe failed: %+v", err)
	}
	client.Run()

	<-sys.Shutdown()
	client.Close()
	if err := store.Close(); err != nil {
		logs.Errorf("pricebook: close store, err: %+v", err)
	}
	if err := store.Unlink(); err != nil {
		logs.Errorf("pricebook: unlink store, err: %+v", err)
	}
	logs.Info("pricebook: bye")
}
