package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/openeshop/eshop/config"
	"github.com/openeshop/eshop/internal/app"
	"github.com/openeshop/eshop/internal/authgate"
	"github.com/openeshop/eshop/internal/restapi"
	"github.com/openeshop/eshop/internal/webserver"
)

var (
	h        = flag.Bool("h", false, "help usage")
	conffile = flag.String("c", "", "config yaml file")
	initdb   = flag.Bool("initdb", false, "drop and rebuild the database tables")
)

func printHelp() {
	if *h {
		fmt.Fprintln(os.Stderr, "eshop usage:")
		flag.PrintDefaults()
		os.Exit(0)
	}
}

func main() {
	flag.Parse()
	printHelp()

	cfg := config.LoadConfig(*conffile)
	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	if *initdb {
		application.InitDb()
		zap.S().Info("database initialized")
		return
	}

	gate := authgate.New(authgate.GateConfig{
		Secret:  cfg.Web.Secret,
		Exempt:  authgate.DefaultExemptRules(cfg.Web.ApiRoot),
		Revoked: authgate.PolicyByName(cfg.Web.RevocationPolicy),
	})

	webserver.Init(application, gate.Middleware())
	restapi.Init(application, gate)

	go func() {
		if err := webserver.Start(); err != nil {
			zap.S().Errorf("web server stopped: %s", err.Error())
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := webserver.Shutdown(ctx); err != nil {
		zap.S().Errorf("web server shutdown error: %s", err.Error())
	}
	zap.S().Info("eshop stopped")
}
