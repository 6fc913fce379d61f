package postgres

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	"eazymove/config"
	"eazymove/pkg/logger"
	"eazymove/storage"
)

type Store struct {
	pool *pgxpool.Pool
	log  logger.ILogger
}

func New(ctx context.Context, cfg config.Config, log logger.ILogger) (*Store, error) {
	url := cfg.PostgresURL()

	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		log.Error("error while parsing Postgres config", logger.Error(err))
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		log.Error("failed to connect Postgres", logger.Error(err))
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		log.Error("Postgres is not reachable", logger.Error(err))
		pool.Close()
		return nil, err
	}

	if err := runMigrations(cfg.MigrationsPath, url, log); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info("Postgres connected")

	return &Store{
		pool: pool,
		log:  log,
	}, nil
}

func runMigrations(path, url string, log logger.ILogger) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	m, err := migrate.New("file://"+abs, url)
	if err != nil {
		log.Error("migration init error", logger.String("path", abs), logger.Error(err))
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("no migrations to apply")
			return nil
		}
		log.Error("migration up error", logger.Error(err))
		return err
	}
	log.Info("migrations applied", logger.String("path", abs))
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) GetPool() *pgxpool.Pool {
	return s.pool
}

func (s *Store) Customer() storage.ICustomerStorage { return NewCustomerRepo(s.pool, s.log) }
func (s *Store) Driver() storage.IDriverStorage     { return NewDriverRepo(s.pool, s.log) }
func (s *Store) Vehicle() storage.IVehicleStorage   { return NewVehicleRepo(s.pool, s.log) }
func (s *Store) Location() storage.ILocationStorage { return NewLocationRepo(s.pool, s.log) }
func (s *Store) Tariff() storage.ITariffStorage     { return NewTariffRepo(s.pool, s.log) }
func (s *Store) Order() storage.IOrderStorage       { return NewOrderRepo(s.pool, s.log) }
func (s *Store) Admin() storage.IAdminStorage       { return NewAdminRepo(s.pool, s.log) }
