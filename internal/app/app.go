// Package app wires configuration, storage backend, store and services
// together for the server and the CLI.
package app

import (
	"context"
	"fmt"

	"alcyxob/group-fitness/internal/config"
	"alcyxob/group-fitness/internal/events"
	"alcyxob/group-fitness/internal/repository"
	"alcyxob/group-fitness/internal/repository/file"
	"alcyxob/group-fitness/internal/repository/memory"
	"alcyxob/group-fitness/internal/repository/mongo"
	"alcyxob/group-fitness/internal/repository/redis"
	"alcyxob/group-fitness/internal/service"
	"alcyxob/group-fitness/internal/storage"
	"alcyxob/group-fitness/internal/store"

	log "github.com/sirupsen/logrus"
)

// App holds the running store and services.
type App struct {
	Backend repository.Backend
	Store   *store.Store

	Auth        service.AuthService
	Groups      service.GroupService
	Workouts    service.WorkoutService
	Progress    service.ProgressService
	Leaderboard service.LeaderboardService

	nats *events.NATSPublisher
}

// Options carries collaborators that are not derived from configuration.
type Options struct {
	// Extra event publishers, e.g. the metrics manager.
	Publishers []events.Publisher
}

// OpenBackend connects the storage backend selected by storage.driver.
func OpenBackend(ctx context.Context, cfg config.Config) (repository.Backend, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverFile:
		b, err := file.New(cfg.Storage.FileDir)
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.DriverMongo:
		client, err := mongo.ConnectDB(ctx, cfg.Database.URI)
		if err != nil {
			return nil, err
		}
		return mongo.NewMongoKVBackend(client, client.Database(cfg.Database.Name)), nil
	case config.DriverRedis:
		client, err := redis.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		return redis.New(client, cfg.Redis.Prefix), nil
	case config.DriverS3:
		b, err := storage.NewS3Backend(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// New opens the backend, loads the store and builds the services.
func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	backend, err := OpenBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.Storage.Driver, err)
	}
	log.Infof("storage backend %q ready", cfg.Storage.Driver)

	s, err := store.Open(ctx, backend)
	if err != nil {
		closeBackend(ctx, backend)
		return nil, err
	}

	a := &App{Backend: backend, Store: s}
	publishers := events.Multi(opts.Publishers)
	if cfg.NATS.URL != "" {
		a.nats, err = events.ConnectNATS(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
		if err != nil {
			closeBackend(ctx, backend)
			return nil, err
		}
		publishers = append(publishers, a.nats)
		log.Infof("publishing events to %s", cfg.NATS.URL)
	}

	deps := service.Deps{Events: publishers}
	a.Groups = service.NewGroupService(s, deps)
	a.Workouts = service.NewWorkoutService(s, deps)
	a.Progress = service.NewProgressService(s, deps)
	a.Leaderboard = service.NewLeaderboardService(s, a.Progress)
	if cfg.JWT.Secret != "" {
		a.Auth = service.NewAuthService(s, deps, cfg.JWT.Secret, cfg.JWT.Expiration)
	}
	return a, nil
}

// Close releases the backend connection and the event publisher.
func (a *App) Close(ctx context.Context) error {
	if a.nats != nil {
		a.nats.Close()
	}
	if c, ok := a.Backend.(repository.Closer); ok {
		return c.Close(ctx)
	}
	return nil
}

func closeBackend(ctx context.Context, backend repository.Backend) {
	if c, ok := backend.(repository.Closer); ok {
		if err := c.Close(ctx); err != nil {
			log.Warnf("close backend: %v", err)
		}
	}
}
