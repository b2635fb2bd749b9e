package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lendex/handler/hc"
	"lendex/handler/rest"
	"lendex/pkg/metrics"

	"github.com/fox-one/pkg/logger"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "run lendex api server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log := logger.FromContext(ctx)
		ctx = logger.WithContext(ctx, log)

		b := provideBackend()
		defer b.Close()

		svc := provideServices(b)

		mux := chi.NewMux()
		mux.Use(middleware.Recoverer)
		mux.Use(middleware.StripSlashes)
		mux.Use(cors.AllowAll().Handler)
		mux.Use(logger.WithRequestID)
		mux.Use(middleware.Logger)
		mux.Use(middleware.NewCompressor(5).Handler)

		{
			// hc
			mux.Mount("/hc", hc.Handle(rootCmd.Version, b.Name, b.Ping))
		}

		{
			// metrics
			mux.Mount("/metrics", metrics.Handler())
		}

		{
			// restful api
			mux.Mount("/", rest.Handle(svc.Oracle, svc.Agency, svc.Markets, b.Transfers))
		}

		port, _ := cmd.Flags().GetInt("port")
		addr := fmt.Sprintf(":%d", port)

		server := &http.Server{
			Addr:    addr,
			Handler: mux,
		}

		g, ctx := errgroup.WithContext(ctx)

		// in memory state is only shared with workers of the same process
		if with, _ := cmd.Flags().GetBool("worker"); with {
			for _, w := range provideWorkers(svc) {
				w := w
				g.Go(func() error {
					return w.Run(ctx)
				})
			}
		}

		g.Go(func() error {
			<-ctx.Done()

			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				logrus.WithError(err).Error("graceful shutdown server failed")
			}

			return nil
		})

		g.Go(func() error {
			logrus.Infoln("serve at", addr)
			if err := server.ListenAndServe(); err != http.ErrServerClosed {
				stop()
				return err
			}

			return nil
		})

		if err := g.Wait(); err != nil {
			logrus.WithError(err).Fatal("server aborted")
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().IntP("port", "p", 9000, "server port")
	serverCmd.Flags().Bool("worker", false, "run the price feed and accrual workers in process")
}
