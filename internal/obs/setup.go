package obs

import (
	"github.com/grafana/pyroscope-go"
	"github.com/yanun0323/logs"
)

// Setup wires the optional observability endpoints for one process: a
// /metrics listener when metricsAddr is set, continuous profiling when
// pyroscopeAddr is set. Returns nil when metrics are disabled, which
// every Metrics method tolerates.
func Setup(app, metricsAddr, pyroscopeAddr string) *Metrics {
	var metrics *Metrics
	if metricsAddr != "" {
		metrics = NewMetrics()
		Serve(metricsAddr)
	}
	if pyroscopeAddr != "" {
		if _, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: app,
			ServerAddress:   pyroscopeAddr,
		}); err != nil {
			logs.Errorf("pyroscope start, err: %+v", err)
		}
	}
	return metrics
}
