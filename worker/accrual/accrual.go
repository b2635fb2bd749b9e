package accrual

import (
	"context"

	"lendex/core"
	"lendex/worker"

	"github.com/fox-one/pkg/logger"
)

const defaultSpec = "@every 5m"

// Worker accrues the interest of every market so idle markets stay current
type Worker struct {
	worker.BaseJob
	Sender  string
	Agency  core.IAgencyService
	Markets core.IMarketService
}

// New new accrual worker
func New(cfg *core.Config, agency core.IAgencyService, markets core.IMarketService) *Worker {
	w := &Worker{
		Sender:  cfg.Accrual.Sender,
		Agency:  agency,
		Markets: markets,
	}

	w.Name = "accrual"
	w.Spec = cfg.Accrual.Schedule
	if w.Spec == "" {
		w.Spec = defaultSpec
	}
	w.Location = worker.LoadLocation(cfg.App.Location)
	w.OnWork = w.onWork

	return w
}

func (w *Worker) onWork(ctx context.Context) error {
	log := logger.FromContext(ctx).WithField("worker", "accrual")

	var after core.Token
	for {
		markets, err := w.Agency.ListMarkets(ctx, after, 30)
		if err != nil {
			log.WithError(err).Errorln("ListMarkets")
			return err
		}

		for _, m := range markets {
			if _, err := w.Markets.Accrue(ctx, core.NewEnv(w.Sender), m.Asset); err != nil {
				log.WithError(err).Errorln("Accrue", m.Asset)
				return err
			}
		}

		if len(markets) < 30 {
			return nil
		}

		after = markets[len(markets)-1].Asset
	}
}
