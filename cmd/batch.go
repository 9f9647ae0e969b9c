package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resource-matcher/internal/logger"
	"github.com/spigell/resource-matcher/internal/metrics"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Score every requirement of the dataset against every resource",
	Run: func(cmd *cobra.Command, _ []string) {
		runBatch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringP("format", "f", "", "export format: json, csv, xlsx or html")
	batchCmd.Flags().StringP("output", "o", "", "export directory")
	batchCmd.Flags().String("order", "", "result order: rank or score")
	batchCmd.Flags().IntP("concurrency", "c", 0, "number of pairs scored in parallel (default is the number of CPUs)")
	batchCmd.Flags().Bool("serve-metrics", false, "keep serving prometheus metrics after the batch until interrupted")

	viper.BindPFlag("batch-order", batchCmd.Flags().Lookup("order"))
	viper.BindPFlag("concurrency", batchCmd.Flags().Lookup("concurrency"))
}

func runBatch(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s, err := newSession(ctx, logger, reg)
	if err != nil {
		logger.Fatal("preparing the matcher", zap.Error(err))
	}
	defer s.Close()

	overrideExport(cmd, s.config.Export)

	serve, _ := cmd.Flags().GetBool("serve-metrics")
	serve = serve || s.config.Metrics.Enabled

	var server *http.Server
	if serve {
		server = serveMetrics(s.config.Metrics.Address, reg, logger)
	}

	logger.Info("starting the batch", zap.String("version", version))

	results, err := s.engine.BatchMatch(ctx, s.dataset.Requirements, s.dataset.Resources)
	if err != nil {
		logger.Fatal("batch match", zap.Error(err))
	}

	logResults(logger, results, 0)

	if s.config.Export.Format != "" {
		path, err := exportResults(results, s.config.Export.Format, s.config.Export.Output)
		if err != nil {
			logger.Fatal("exporting results", zap.Error(err))
		}
		logger.Info("results exported", zap.String("path", path), zap.Int("count", len(results)))
	}

	if server == nil {
		return
	}

	logger.Info("serving metrics until interrupted", zap.String("address", server.Addr))
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("stopping metrics server", zap.Error(err))
	}
}

func serveMetrics(address string, reg *prometheus.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))

	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", zap.Error(err))
		}
	}()

	return server
}
