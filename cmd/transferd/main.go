package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	kitlog "github.com/go-kit/kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	wtransfer "github.com/gr2020155-code/W-Mars-Transfer-WStructure"
	"github.com/gr2020155-code/W-Mars-Transfer-WStructure/api"
)

var (
	confPath string
	addr     string
)

func init() {
	flag.StringVar(&confPath, "config", "", "TOML configuration file (defaults to $WTRANSFER_CONFIG/conf.toml)")
	flag.StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
}

func main() {
	flag.Parse()
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)

	conf, err := wtransfer.LoadConfig(confPath)
	if err != nil {
		logger.Log("level", "critical", "subsys", "conf", "err", err)
		os.Exit(1)
	}
	if addr != "" {
		conf.Server.Addr = addr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := wtransfer.NewMetrics(reg)

	gin.SetMode(gin.ReleaseMode)
	handler := api.NewHandler(conf.Constants, metrics, logger, conf.Server.MaxStreamSamples)
	srv := &http.Server{
		Addr:              conf.Server.Addr,
		Handler:           api.SetupRouter(handler, conf.Server, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log("level", "info", "subsys", "http", "status", "listening", "addr", conf.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log("level", "critical", "subsys", "http", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log("level", "error", "subsys", "http", "status", "forced shutdown", "err", err)
	}
	logger.Log("level", "info", "subsys", "http", "status", "stopped")
}
