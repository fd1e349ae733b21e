package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restopos/configs"
	"restopos/middlewares"
	"restopos/pkg/logger"
	"restopos/pkg/rabbitmq"
	"restopos/routes"
	"restopos/services"
	"restopos/utils"
	"restopos/ws"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

const serviceName = "restopos"

func main() {
	app := &cli.App{
		Name:  serviceName,
		Usage: "restaurant point-of-sale backend",
		Commands: []*cli.Command{
			{Name: "serve", Usage: "run the HTTP API and kitchen feed", Action: serve},
			{Name: "migrate", Usage: "create or update the schema", Action: migrate},
			{Name: "seed", Usage: "load the demo café", Action: seed},
			{
				Name:  "token",
				Usage: "mint a staff token for local testing",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "user", Value: 1},
					&cli.StringFlag{Name: "role", Value: middlewares.RoleAdmin},
				},
				Action: token,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func bootstrap() (*configs.Config, *logrus.Entry, error) {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(serviceName, cfg.LogLevel)

	if err := configs.ConnectionDB(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func migrate(*cli.Context) error {
	_, log, err := bootstrap()
	if err != nil {
		return err
	}
	if err := configs.SetupDatabase(configs.DB()); err != nil {
		return err
	}
	log.Info("schema migrated")
	return nil
}

func seed(*cli.Context) error {
	_, log, err := bootstrap()
	if err != nil {
		return err
	}
	if err := configs.SetupDatabase(configs.DB()); err != nil {
		return err
	}
	return configs.SeedDemo(configs.DB(), log)
}

func token(c *cli.Context) error {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return err
	}
	t, err := utils.GenerateToken(c.Uint("user"), c.String("role"), cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		return errors.Wrap(err, "sign token")
	}
	fmt.Println(t)
	return nil
}

func serve(*cli.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	db := configs.DB()

	// migrate
	if err := configs.SetupDatabase(db); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// events (optional broker)
	var pub services.Publisher
	if cfg.AMQPURL != "" {
		mq, err := rabbitmq.Connect(cfg.AMQPURL, log)
		if err != nil {
			return err
		}
		defer mq.Close()
		pub = mq
	} else {
		log.Warn("AMQP_URL not set, lifecycle events are not published")
	}
	events := services.NewEventBus(pub, log)

	feed := services.NewKitchenFeed(db, cfg.KDSPollInterval, log)
	hub := ws.NewKitchenHub(feed, cfg.KDSKeepAlive, log)

	// HTTP
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, routes.Deps{
		DB:     db,
		Config: cfg,
		Events: events,
		Feed:   feed,
		Hub:    hub,
		Log:    log,
	})

	g, ctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		// ปิด SSE stream ที่ค้างอยู่ตอน shutdown
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g.Go(func() error { return feed.Run(ctx) })
	g.Go(func() error { return hub.Run(ctx) })
	g.Go(func() error {
		log.WithField("addr", srv.Addr).Info("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "listen")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
