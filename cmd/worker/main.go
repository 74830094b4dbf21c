package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/careerhub/careerhub-api/adapters/event"
	"github.com/careerhub/careerhub-api/adapters/persistence"
	"github.com/careerhub/careerhub-api/internal/application/usecase/profile"
	"github.com/careerhub/careerhub-api/internal/config"
	"github.com/careerhub/careerhub-api/pkg/apperror"
	"github.com/careerhub/careerhub-api/pkg/logger"
)

func main() {
	fmt.Println("Starting CareerHub Worker...")

	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	// Database
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		log.Fatalf("FATAL: cannot connect Postgres: %v", err)
	}
	defer dbPool.Close()

	// Repositories
	profileRepo := persistence.NewPostgresProfileRepo(dbPool, appLogger)

	// Worker Use Case
	recomputeUC := profile.NewRecomputeCompletenessUseCase(profileRepo, appLogger)

	// Kafka Consumer
	profileConsumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicProfileEvents,
		GroupID:  "completeness-reconciler-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer profileConsumer.Close()

	log.Printf("Worker listening on topic '%s'...", event.TopicProfileEvents)

	ctx := context.Background()
	for {
		msg, err := profileConsumer.ReadMessage(ctx)
		if err != nil {
			log.Printf("ERROR: Failed to read message from Kafka: %v", err)
			continue
		}

		log.Printf("Received message from [Topic: %s], [Key: %s]", msg.Topic, string(msg.Key))

		var payload event.ProfileEvent
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			log.Printf("ERROR: Failed to unmarshal event: %v. Skipping.", err)
			commitMessage(profileConsumer, msg)
			continue
		}

		if payload.Type == event.EventProfileDeleted {
			commitMessage(profileConsumer, msg)
			continue
		}

		log.Printf("Processing event: [%s] for ProfileID: %s", payload.Type, payload.ProfileID)

		out, err := recomputeUC.Reconcile(ctx, payload.ProfileID)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				log.Printf("ProfileID %s no longer exists. Skipping.", payload.ProfileID)
				commitMessage(profileConsumer, msg)
				continue
			}
			log.Printf("ERROR: Failed to recompute completeness for ProfileID %s: %v", payload.ProfileID, err)
			continue
		}

		log.Printf("Completeness for ProfileID %s is %d", payload.ProfileID, out.Score)

		commitMessage(profileConsumer, msg)
	}
}

func commitMessage(consumer *kafka.Reader, msg kafka.Message) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		log.Printf("ERROR: Failed to commit message: %v", err)
	}
}
