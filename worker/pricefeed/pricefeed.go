package pricefeed

import (
	"context"

	"lendex/core"
	"lendex/pkg/metrics"
	"lendex/worker"

	"github.com/fox-one/pkg/logger"
)

const defaultSpec = "@every 1m"

// Worker pushes external tickers to the oracle
type Worker struct {
	worker.BaseJob
	Oracle    core.IOracleService
	PriceFeed core.IPriceFeedService
}

// New new price feed worker
func New(cfg *core.Config, oracle core.IOracleService, feed core.IPriceFeedService) *Worker {
	w := &Worker{
		Oracle:    oracle,
		PriceFeed: feed,
	}

	w.Name = "pricefeed"
	w.Spec = cfg.PriceFeed.Schedule
	if w.Spec == "" {
		w.Spec = defaultSpec
	}
	w.Location = worker.LoadLocation(cfg.App.Location)
	w.OnWork = w.onWork

	return w
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "pricefeed")

	tickers, err := w.PriceFeed.PullAllPriceTickers(ctx)
	if err != nil {
		log.WithError(err).Errorln("PullAllPriceTickers")
		return err
	}

	// prices are pushed as the oracle identity
	env := core.NewEnv(w.Oracle.Config().Oracle)
	for _, ticker := range tickers {
		_, err := w.Oracle.SetPrice(ctx, env, ticker.Sell, ticker.Buy, ticker.Rate)
		metrics.ObservePriceUpdate(err)
		if err != nil {
			log.WithError(err).Errorln("SetPrice", ticker.Sell, ticker.Buy)
			return err
		}
	}

	log.Debugln("pushed", len(tickers), "prices")
	return nil
}
