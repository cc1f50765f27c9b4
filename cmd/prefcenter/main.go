package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/quantonganh/prefcenter"
	"github.com/quantonganh/prefcenter/bolt"
	"github.com/quantonganh/prefcenter/http"
	"github.com/quantonganh/prefcenter/l10n"
	"github.com/quantonganh/prefcenter/remote"
	"github.com/quantonganh/prefcenter/sqlite"
)

func main() {
	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}

	viper.SetDefault("http.addr", ":8080")
	viper.SetDefault("db.type", "bolt")
	viper.SetDefault("catalog.ttl", 300)
	viper.SetDefault("newsletter.defaultlocale", "en-US")

	var config *prefcenter.Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatal(err)
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn: config.Sentry.DSN,
	}); err != nil {
		log.Fatalf("sentry.Init: %v", err)
	}
	defer sentry.Flush(2 * time.Second)

	a := newApp(config)

	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go func() {
		<-c
		cancel()
	}()

	if err := a.Run(ctx); err != nil {
		_ = a.Close()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	<-ctx.Done()

	if err := a.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	config     *prefcenter.Config
	db         prefcenter.Database
	httpServer *http.Server
	cron       *cron.Cron
}

func newApp(config *prefcenter.Config) *app {
	httpServer, err := http.NewServer()
	if err != nil {
		log.Fatalf("%+v\n", err)
	}
	return &app{
		config:     config,
		httpServer: httpServer,
		cron:       cron.New(),
	}
}

func (a *app) Run(ctx context.Context) error {
	var opts []remote.Option
	if a.config.Backend.Timeout > 0 {
		opts = append(opts, remote.WithTimeout(time.Duration(a.config.Backend.Timeout)*time.Second))
	}
	client := remote.NewClient(a.config.Backend.URL, a.config.Backend.APIKey, opts...)

	catalog, err := a.openCatalog(ctx, client)
	if err != nil {
		return err
	}

	translator, err := l10n.New(a.config.Newsletter.DefaultLocale)
	if err != nil {
		return err
	}

	a.httpServer.Addr = a.config.HTTP.Addr
	a.httpServer.SignupURL = a.config.Newsletter.SignupURL
	a.httpServer.DefaultLocale = a.config.Newsletter.DefaultLocale
	a.httpServer.SubscriberService = client
	a.httpServer.CatalogService = catalog
	a.httpServer.Translate = translator.T

	if err := a.httpServer.Open(); err != nil {
		return err
	}

	return nil
}

// openCatalog wires the catalog backend named by db.type: "bolt" caches the
// remote catalog locally and refreshes it on a schedule, "sqlite" serves a
// locally managed table.
func (a *app) openCatalog(ctx context.Context, client *remote.Client) (prefcenter.CatalogService, error) {
	switch a.config.DB.Type {
	case "sqlite":
		db := sqlite.NewDB(a.config.DB.Path)
		if err := db.Open(); err != nil {
			return nil, err
		}
		a.db = db
		return sqlite.NewCatalogService(db), nil
	default:
		db := bolt.NewDB(a.config.DB.Path)
		if err := db.Open(); err != nil {
			return nil, err
		}
		a.db = db

		ttl := time.Duration(a.config.Catalog.TTL) * time.Second
		catalog := bolt.NewCatalogService(db, client, ttl)

		if spec := a.config.Catalog.Cron.Spec; spec != "" {
			refresher, ok := catalog.(interface{ Refresh(context.Context) error })
			if ok {
				if _, err := a.cron.AddFunc(spec, func() {
					if err := refresher.Refresh(ctx); err != nil {
						log.Printf("catalog refresh: %v", err)
					}
				}); err != nil {
					return nil, err
				}
				a.cron.Start()
			}
		}

		return catalog, nil
	}
}

func (a *app) Close() error {
	if a.cron != nil {
		a.cron.Stop()
	}

	if a.httpServer != nil {
		if err := a.httpServer.Close(); err != nil {
			return err
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return err
		}
	}

	return nil
}
