package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"merval/internal/application/port"
	"merval/internal/application/service"
	"merval/internal/domain"
	"merval/internal/infrastructure/config"
	"merval/internal/infrastructure/feed/data912"
	"merval/internal/infrastructure/logger"
	"merval/internal/infrastructure/storage/composite"
	"merval/internal/infrastructure/storage/postgres"
	redisrepo "merval/internal/infrastructure/storage/redis"
	"merval/internal/infrastructure/storage/sqlite"
	"merval/internal/interfaces/console"
	"merval/internal/interfaces/stream"
)

func main() {
	logger.Setup()

	configPath := flag.String("config", "configs/config.toml", "path to config.toml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("load config failed")
	}
	logger.SetLevel(cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	calendar, err := domain.NewTradingCalendar(cfg.Market.Timezone, cfg.Market.Open, cfg.Market.Close)
	if err != nil {
		log.Fatal().Err(err).Str("tz", cfg.Market.Timezone).Msg("load timezone failed")
	}

	feed := data912.New(cfg.Feed.BaseURL, data912.Paths{
		Stocks: cfg.Feed.StocksPath,
		Bonds:  cfg.Feed.BondsPath,
		Corp:   cfg.Feed.CorpPath,
		MEP:    cfg.Feed.MEPPath,
	}, time.Duration(cfg.Feed.TimeoutSec)*time.Second)

	// storage backends (infrastructure -> application ports)
	var repos []port.Repository
	var favStore port.FavoritesStore

	if cfg.Storage.SQLitePath != "" {
		sq, err := sqlite.New(cfg.Storage.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Storage.SQLitePath).Msg("open sqlite failed")
		}
		repos = append(repos, sq)
		favStore = sq
	}
	if cfg.Storage.RedisAddr != "" {
		rdb := goredis.NewClient(&goredis.Options{Addr: cfg.Storage.RedisAddr})
		repos = append(repos, redisrepo.New(rdb, cfg.Storage.RedisPrefix,
			time.Duration(cfg.Storage.RedisTTLSec)*time.Second))
	}
	if cfg.Storage.PostgresDSN != "" {
		pg, err := postgres.New(cfg.Storage.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("open postgres failed")
		}
		repos = append(repos, pg)
	}

	var repo port.Repository = service.NewNoopRepo()
	if len(repos) > 0 {
		repo = composite.New(repos...)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.Warn().Err(err).Msg("close storage failed")
		}
	}()

	if favStore == nil {
		log.Warn().Msg("sqlite disabled, favorites will not persist")
		favStore = memFavorites{}
	}

	board := service.NewBoard()
	favorites := service.NewFavorites(favStore)
	if err := favorites.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("load favorites failed")
	}
	calc := service.NewMEPCalculator(board, cfg.MEP.Bond, cfg.MEP.BondUSD)
	portfolio := service.NewPortfolio(board)
	history := service.NewHistoryTracker()

	interval := time.Duration(cfg.App.PollSeconds) * time.Second

	sink := console.New(interval, calendar.Location())
	sinks := []port.SnapshotSink{sink}

	if cfg.Stream.Enabled {
		hub := stream.NewHub(stream.Intents{
			Favorites: favorites,
			Calc:      calc,
			Portfolio: portfolio,
		})
		sinks = append(sinks, hub)
		go func() {
			if err := hub.Run(ctx, cfg.Stream.Addr); err != nil {
				log.Error().Err(err).Str("addr", cfg.Stream.Addr).Msg("stream server exited")
			}
		}()
		log.Info().Str("addr", cfg.Stream.Addr).Msg("stream server started")
	}

	poller := service.NewPoller(service.PollerDeps{
		Feed:      feed,
		Board:     board,
		History:   history,
		Calc:      calc,
		Favorites: favorites,
		Portfolio: portfolio,
		Repo:      repo,
		Sinks:     sinks,
		Calendar:  calendar,
		Interval:  interval,
	})

	go sink.Run(ctx)

	log.Info().
		Str("config", *configPath).
		Str("feed", cfg.Feed.BaseURL).
		Int("poll_seconds", cfg.App.PollSeconds).
		Str("mep_pair", cfg.MEP.Bond+"/"+cfg.MEP.BondUSD).
		Msg("merval started")

	if err := poller.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("poller exited")
	}
}

// memFavorites keeps favorites for the process lifetime only.
type memFavorites struct{}

func (memFavorites) Load(context.Context) ([]port.Favorite, error) { return nil, nil }
func (memFavorites) Save(context.Context, []port.Favorite) error   { return nil }
