package main

import (
	"context"
	"fmt"

	"rideshare/internal/config"
	"rideshare/internal/events"
	"rideshare/internal/logging"
	"rideshare/internal/metrics"
	"rideshare/internal/repository"
	"rideshare/internal/repository/badgerstore"
	"rideshare/internal/repository/couch"
	"rideshare/internal/repository/memory"
	"rideshare/internal/repository/postgres"
)

// openStore builds the configured document store wrapped with a per-operation
// timeout and metrics. The returned func releases the backend.
func openStore(ctx context.Context, cfg config.StoreConfig) (repository.DocumentStore, func(), error) {
	var (
		store   repository.DocumentStore
		closeFn = func() {}
	)

	switch cfg.Driver {
	case "memory":
		store = memory.NewDocumentStore()
	case "badger":
		s, err := badgerstore.Open(cfg.BadgerPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open badger store: %w", err)
		}
		store = s
		closeFn = func() {
			if err := s.Close(); err != nil {
				logging.Error().Err(err).Msg("failed to close badger store")
			}
		}
	case "postgres":
		connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
		s, err := postgres.Connect(connectCtx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		store = s
		closeFn = s.Close
	case "couchdb":
		s, err := couch.Connect(cfg.CouchDBURL, cfg.CouchDBPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("open couchdb store: %w", err)
		}
		store = s
		closeFn = func() {
			if err := s.Close(); err != nil {
				logging.Error().Err(err).Msg("failed to close couchdb client")
			}
		}
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	logging.Info().Str("driver", cfg.Driver).Msg("document store ready")
	return metrics.InstrumentStore(repository.WithTimeout(store, cfg.Timeout)), closeFn, nil
}

func openPublisher(cfg config.EventsConfig) (events.Publisher, func(), error) {
	switch cfg.Driver {
	case "amqp":
		p, err := events.DialAMQP(cfg.AMQPURL, cfg.Exchange)
		if err != nil {
			return nil, nil, err
		}
		return p, func() {
			if err := p.Close(); err != nil {
				logging.Error().Err(err).Msg("failed to close AMQP publisher")
			}
		}, nil
	default:
		return events.NewLogPublisher(), func() {}, nil
	}
}
