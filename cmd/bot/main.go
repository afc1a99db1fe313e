package main

import (
	"time"

	"referral-bot/internal/bot"
	"referral-bot/internal/campaign"
	"referral-bot/internal/config"
	"referral-bot/internal/database"
	"referral-bot/internal/export"
	"referral-bot/internal/ledger"
	"referral-bot/internal/logger"
	"referral-bot/internal/session"
	"referral-bot/internal/worker"
)

func main() {
	cfg := config.LoadConfig()
	log := logger.New()

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}

	rdb, err := database.ConnectRedis(cfg, log)
	if err != nil {
		log.Fatalf("Could not connect to redis: %v", err)
	}

	lg := ledger.New(db, log)
	campaigns := campaign.NewResolver(db, log)
	sessions := session.NewStore(rdb, time.Duration(cfg.SessionTTLMinutes)*time.Minute)
	exporter := export.NewExporter(db, log, "exports")

	tgBot, err := bot.NewBot(cfg, lg, campaigns, sessions, exporter, log)
	if err != nil {
		log.Fatalf("Could not create bot: %v", err)
	}

	reminder := worker.NewReminder(lg, rdb, tgBot.Instance, cfg.AdminIDs, cfg.Currency,
		time.Duration(cfg.ReminderAfterHours)*time.Hour, log)
	go reminder.Start()

	log.Info("Service started successfully")
	tgBot.Start()
}
