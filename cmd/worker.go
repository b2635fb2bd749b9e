package cmd

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"lendex/worker"
	"lendex/worker/accrual"
	"lendex/worker/pricefeed"

	"github.com/fox-one/pkg/logger"
	"github.com/spf13/cobra"
)

func provideWorkers(svc *services) []worker.Worker {
	return []worker.Worker{
		pricefeed.New(&cfg, svc.Oracle, providePriceFeedService()),
		accrual.New(&cfg, svc.Agency, svc.Markets),
	}
}

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "lendex job worker",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		if cfg.UseMemory() {
			log.Warnln("no database configured, workers will not share state with the api server; use server --worker instead")
		}

		b := provideBackend()
		defer b.Close()

		workers := provideWorkers(provideServices(b))

		wg := sync.WaitGroup{}
		for _, w := range workers {
			wg.Add(1)

			go func(worker worker.Worker) {
				defer wg.Done()
				if err := worker.Run(ctx); err != nil {
					log.WithError(err).Errorln("worker stopped")
				}
			}(w)
		}

		wg.Wait()
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
