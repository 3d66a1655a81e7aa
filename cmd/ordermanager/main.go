package main

import (
	"flag"
	"log"

	"github.com/yanun0323/logs"
	"github.com/yanun0323/pkg/sys"

	"github.com/ctorgovnik/FINM32500-assignment8/internal/obs"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/om"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/ops"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to YAML config")
	flag.Parse()

	cfg, err := ops.Load(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %+v", err)
	}
	metrics := obs.Setup("trading.ordermanager", cfg.Obs.MetricsAddr, cfg.Obs.PyroscopeAddr)

	server := om.NewServer(om.ServerConfig{
		Port:      cfg.OrderManager.Port,
		Delimiter: cfg.Delim(),
		Executor:  om.LogExecutor{},
		Metrics:   metrics,
	})
	go func() {
		if err := server.Run(); err != nil {
			log.Fatalf("order router failed: %+v", err)
		}
	}()

	<-sys.Shutdown()
	server.Shutdown()
	logs.Info("ordermanager: bye")
}
