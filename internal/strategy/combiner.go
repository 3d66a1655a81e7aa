package strategy

import (
	"sync"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"

	"github.com/ctorgovnik/FINM32500-assignment8/internal/model"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/model/enum"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/obs"
	"github.com/ctorgovnik/FINM32500-assignment8/internal/wire"
)

// TradeSink receives fused trade decisions.
type TradeSink interface {
	Submit(symbol string, quantity int, price float64, action enum.Action) error
}

// Combiner fuses the price-trend channel and the news-sentiment channel
// per symbol. Each channel keeps only its latest action per symbol;
// every new arrival re-evaluates that symbol only, and a trade is
// dispatched whenever both channels hold equal actions. Equality is
// literal, so a HOLD/HOLD pair also dispatches; the sink decides what a
// HOLD submission means.
type Combiner struct {
	price   *Crossover
	news    *News
	sink    TradeSink
	delim   byte
	metrics *obs.Metrics

	mu          sync.Mutex
	latestPrice map[string]model.Signal
	latestNews  map[string]enum.Action
}

// NewCombiner wires the two channel strategies to a trade sink.
func NewCombiner(price *Crossover, news *News, sink TradeSink, delim byte, metrics *obs.Metrics) (*Combiner, error) {
	if price == nil || news == nil {
		return nil, errors.New("combiner: nil strategy")
	}
	if sink == nil {
		return nil, errors.New("combiner: nil trade sink")
	}
	if delim == 0 {
		delim = wire.DefaultDelimiter
	}
	return &Combiner{
		price:       price,
		news:        news,
		sink:        sink,
		delim:       delim,
		metrics:     metrics,
		latestPrice: make(map[string]model.Signal),
		latestNews:  make(map[string]enum.Action),
	}, nil
}

// OnPrice feeds one price observation from the shared store poller.
// The timestamp is the store's, carried for logging only.
func (c *Combiner) OnPrice(symbol string, price, timestamp float64) {
	signal, fired := c.price.OnTick(symbol, price)
	if !fired {
		return
	}
	logs.Infof("combiner: price signal %s %s qty=%d px=%v ts=%v",
		signal.Action, symbol, signal.Quantity, signal.Price, timestamp)

	c.mu.Lock()
	c.latestPrice[symbol] = signal
	c.mu.Unlock()
	c.fuse(symbol)
}

// OnNews feeds one raw news frame from the feed client. Malformed or
// out-of-range frames are rejected without touching the channel state.
func (c *Combiner) OnNews(payload []byte) error {
	update, err := model.ParseSentimentUpdate(payload, c.delim)
	if err != nil {
		return err
	}
	action := c.news.Evaluate(update.Sentiment)

	c.mu.Lock()
	c.latestNews[update.Symbol] = action
	c.mu.Unlock()
	c.fuse(update.Symbol)
	return nil
}

func (c *Combiner) fuse(symbol string) {
	c.mu.Lock()
	signal, havePrice := c.latestPrice[symbol]
	newsAction, haveNews := c.latestNews[symbol]
	c.mu.Unlock()

	if !havePrice || !haveNews || signal.Action != newsAction {
		return
	}
	if err := c.sink.Submit(signal.Symbol, signal.Quantity, signal.Price, signal.Action); err != nil {
		logs.Errorf("combiner: submit %s trade for %s, err: %+v", signal.Action, symbol, err)
		return
	}
	c.metrics.TradeSignal(signal.Action.String())
	logs.Infof("combiner: dispatched %s %d %s @ %v", signal.Action, signal.Quantity, symbol, signal.Price)
}
