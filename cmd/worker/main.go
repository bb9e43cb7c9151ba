package main

import (
	"go.uber.org/zap"

	"studyflow/config"
	"studyflow/internal/mailer"
	"studyflow/internal/mqhandler"
	"studyflow/pkg/logger"
	"studyflow/pkg/mq"
)

func main() {
	cfg := config.Load()

	log := logger.NewLogger()
	defer log.Sync()

	m := mailer.New(cfg.SMTP, log)
	if !m.Configured() {
		log.Info("SMTP not configured, invite emails will be skipped")
	}

	consumer, err := mq.NewConsumer(cfg.MQ.URL, "invitation.created")
	if err != nil {
		log.Fatal("failed to init consumer", zap.Error(err))
	}
	defer consumer.Close()

	handler := mqhandler.NewInvitationCreatedHandler(m, log)
	consumer.SetHandler(handler.Handle)

	log.Info("Invite mail worker started")
	if err := consumer.StartConsuming(); err != nil {
		log.Fatal("consumer start failed", zap.Error(err))
	}
}
