package main

import (
	"flag"
	"log"

	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"github.com/ctorgovnik/FINM32500-assignment8/internal/feed"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/mdg"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/obs"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/ops"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config")
	flag.Parse()

	cfg, err := ops.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %+v", err)
	}
	metrics := obs.Setup("trading.gateway", cfg.Obs.MetricsAddr, cfg.Obs.PyroscopeAddr)

	tickProvider, err := newTickProvider(cfg)
	if err != nil {
		log.Fatalf("tick provider failed: %+v", err)
	}
	newsProvider, err := mdg.NewNewsProvider(cfg.Symbols, cfg.Delim(), cfg.Gateway.NewsLimit, cfg.Gateway.NewsInterval)
	if err != nil {
		log.Fatalf("news provider failed: %+v", err)
	}

	mdServer, err := feed.NewServer(feed.ServerConfig{
		Name:      "market_data",
		Port:      cfg.Gateway.MDPort,
		Delimiter: cfg.Delim(),
		Provider:  tickProvider,
		Metrics:   metrics,
	})
	if err != nil {
		log.Fatalf("market data server failed: %+v", err)
	}
	newsServer, err := feed.NewServer(feed.ServerConfig{
		Name:      "news",
		Port:      cfg.Gateway.NewsPort,
		Delimiter: cfg.Delim(),
		Provider:  newsProvider,
		Metrics:   metrics,
	})
	if err != nil {
		log.Fatalf("news server failed: %+v", err)
	}

	go func() {
		if err := mdServer.Run(); err != nil {
			log.Fatalf("market data server failed: %+v", err)
		}
	}()
	go func() {
		if err := newsServer.Run(); err != nil {
			log.Fatalf("news server failed: %+v", err)
		}
	}()

	<-sys.Shutdown()
	mdServer.Shutdown()
	newsServer.Shutdown()
	logs.Info("gateway: bye")
}

func newTickProvider(cfg *ops.Config) (feed.Provider, error) {
	if cfg.Gateway.Synthetic {
		return mdg.NewGenerator(cfg.Symbols, cfg.Gateway.BasePrice, cfg.Gateway.Step, cfg.Gateway.TickInterval, cfg.Delim())
	}
	return mdg.NewCSVProvider(cfg.Gateway.DataPath, cfg.Delim())
}
