package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yanun0323/logs"
)

// Metrics records transport and strategy counters. Every method is
// nil-safe so components treat their Metrics field as optional.
type Metrics struct {
	framesBroadcast  *prometheus.CounterVec
	framesReceived   *prometheus.CounterVec
	framesDropped    *prometheus.CounterVec
	clientsConnected *prometheus.GaugeVec
	ordersRouted     prometheus.Counter
	tradeSignals     *prometheus.CounterVec
	lastPrice        *prometheus.GaugeVec
}

// NewMetrics registers the collectors on the default registry.
// Call at most once per process.
func NewMetrics() *Metrics {
	return &Metrics{
		framesBroadcast: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trading_frames_broadcast_total",
				Help: "Frames delivered to connected feed clients",
			},
			[]string{"channel"},
		),
		framesReceived: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trading_frames_received_total",
				Help: "Complete frames reassembled from upstream",
			},
			[]string{"channel"},
		),
		framesDropped: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trading_frames_dropped_total",
				Help: "Frames discarded as malformed",
			},
			[]string{"channel"},
		),
		clientsConnected: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "trading_clients_connected",
				Help: "Currently connected downstream clients",
			},
			[]string{"channel"},
		),
		ordersRouted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "trading_orders_routed_total",
				Help: "Orders handed to the execution sink",
			},
		),
		tradeSignals: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trading_trade_signals_total",
				Help: "Fused trade signals dispatched by the combiner",
			},
			[]string{"action"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "trading_last_price",
				Help: "Last price written to the shared price store",
			},
			[]string{"symbol"},
		),
	}
}

// Serve exposes the default registry under /metrics on addr.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logs.Errorf("metrics server, err: %+v", err)
		}
	}()
}

func (m *Metrics) FrameBroadcast(channel string) {
	if m == nil {
		return
	}
	m.framesBroadcast.WithLabelValues(channel).Inc()
}

func (m *Metrics) FrameReceived(channel string) {
	if m == nil {
		return
	}
	m.framesReceived.WithLabelValues(channel).Inc()
}

func (m *Metrics) FrameDropped(channel string) {
	if m == nil {
		return
	}
	m.framesDropped.WithLabelValues(channel).Inc()
}

func (m *Metrics) ClientConnected(channel string) {
	if m == nil {
		return
	}
	m.clientsConnected.WithLabelValues(channel).Inc()
}

func (m *Metrics) ClientDisconnected(channel string) {
	if m == nil {
		return
	}
	m.clientsConnected.WithLabelValues(channel).Dec()
}

func (m *Metrics) OrderRouted() {
	if m == nil {
		return
	}
	m.ordersRouted.Inc()
}

func (m *Metrics) TradeSignal(action string) {
	if m == nil {
		return
	}
	m.tradeSignals.WithLabelValues(action).Inc()
}

func (m *Metrics) SetLastPrice(symbol string, price float64) {
	if m == nil {
		return
	}
	m.lastPrice.WithLabelValues(symbol).Set(price)
}
