package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/khoahotran/career-planner/adapters/event"
	"github.com/khoahotran/career-planner/adapters/persistence"
	planUC "github.com/khoahotran/career-planner/internal/application/usecase/planning"
	profileUC "github.com/khoahotran/career-planner/internal/application/usecase/profilemgmt"
	"github.com/khoahotran/career-planner/internal/config"
	"github.com/khoahotran/career-planner/internal/domain/importrec"
	"github.com/khoahotran/career-planner/pkg/logger"
)

func main() {
	fmt.Println("Starting Career Planner Worker...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	planRepo := persistence.NewPostgresPlanRepo(dbPool, appLogger)
	profileRepo := persistence.NewPostgresProfileRepo(dbPool, appLogger)

	expandPlanUseCase := planUC.NewExpandPlanUseCase(planRepo, appLogger)
	profileUseCase := profileUC.NewProfileUseCase(profileRepo, redisClient, appLogger)

	ctx := context.Background()

	go consumePlanEvents(ctx, cfg, expandPlanUseCase, appLogger)
	consumeImportEvents(ctx, cfg, profileUseCase, appLogger)
}

// consumePlanEvents expands each generated plan's weekly entries into
// execution rows.
func consumePlanEvents(ctx context.Context, cfg config.Config, uc *planUC.ExpandPlanUseCase, appLogger logger.Logger) {
	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicPlanEvents,
		GroupID:  "plan-expander-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer consumer.Close()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicPlanEvents))

	for {
		msg, err := consumer.ReadMessage(ctx)
		if err != nil {
			appLogger.Error("Failed to read message from Kafka", err, zap.String("topic", event.TopicPlanEvents))
			continue
		}

		var payload event.PlanEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			appLogger.Error("Failed to unmarshal plan event, skipping", err)
			commitMessage(consumer, msg, appLogger)
			continue
		}

		appLogger.Info("Processing plan event",
			zap.String("event_type", payload.EventType),
			zap.String("plan_id", payload.PlanID.String()),
		)

		if err := uc.Execute(ctx, payload.PlanID, payload.OwnerID); err != nil {
			appLogger.Error("Failed to expand plan", err, zap.String("plan_id", payload.PlanID.String()))
			continue
		}

		commitMessage(consumer, msg, appLogger)
	}
}

// consumeImportEvents drops the cached profile after a profile import
// so the next read sees the imported data.
func consumeImportEvents(ctx context.Context, cfg config.Config, uc *profileUC.ProfileUseCase, appLogger logger.Logger) {
	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Kafka.Brokers,
		Topic:    event.TopicImportEvents,
		GroupID:  "import-postprocessor-group",
		MinBytes: 10e3,
		MaxBytes: 10e6,
	})
	defer consumer.Close()

	appLogger.Info("Worker listening", zap.String("topic", event.TopicImportEvents))

	for {
		msg, err := consumer.ReadMessage(ctx)
		if err != nil {
			appLogger.Error("Failed to read message from Kafka", err, zap.String("topic", event.TopicImportEvents))
			continue
		}

		var payload event.ImportEventPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			appLogger.Error("Failed to unmarshal import event, skipping", err)
			commitMessage(consumer, msg, appLogger)
			continue
		}

		if payload.ImportType == string(importrec.TypeProfile) {
			uc.Invalidate(ctx, payload.OwnerID)
			appLogger.Info("Invalidated profile cache after import",
				zap.String("owner_id", payload.OwnerID.String()),
				zap.String("job_id", payload.JobID.String()),
			)
		}

		commitMessage(consumer, msg, appLogger)
	}
}

func commitMessage(consumer *kafka.Reader, msg kafka.Message, appLogger logger.Logger) {
	if err := consumer.CommitMessages(context.Background(), msg); err != nil {
		appLogger.Error("Failed to commit message", err)
	}
}
