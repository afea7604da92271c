package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"class_reminder_bot/internal/app"
	"class_reminder_bot/internal/domain/delivery"
	"class_reminder_bot/internal/domain/reminder"
	"class_reminder_bot/internal/infra/config"
	idb "class_reminder_bot/internal/infra/database"
	"class_reminder_bot/internal/infra/email"
	iledger "class_reminder_bot/internal/infra/ledger"
	"class_reminder_bot/internal/infra/logger"
	"class_reminder_bot/internal/infra/scheduler"
	"class_reminder_bot/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Class Reminder Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. Channel: %s, Tick: %s, Window: %s", cfg.DeliveryChannel, cfg.TickInterval, cfg.WindowWidth)

	thresholds, err := reminder.ParseThresholds(cfg.ThresholdSpec)
	if err != nil {
		log.Fatalf("FATAL: Invalid REMINDER_THRESHOLDS: %v", err)
	}

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established successfully.")

	eventRepo := idb.NewPostgresEventRepository(db)
	studentRepo := idb.NewPostgresStudentRepository(db)

	// Initialize Dedup Ledger
	var led reminder.Ledger
	if cfg.LedgerPath != "" {
		fileLedger := iledger.NewFileLedger(cfg.LedgerPath)
		if err := fileLedger.Load(); err != nil {
			log.Fatalf("FATAL: Could not load reminder ledger from %s: %v", cfg.LedgerPath, err)
		}
		log.Infof("Reminder ledger loaded from %s (%d keys).", cfg.LedgerPath, fileLedger.Len())
		led = fileLedger
	} else {
		led = iledger.NewMemoryLedger()
		log.Info("Using in-memory reminder ledger; dedup state resets on restart.")
	}

	// Initialize Delivery Channel and its recipient-resolution strategy
	var channel delivery.Channel
	var resolver delivery.Resolver
	switch cfg.DeliveryChannel {
	case config.ChannelTelegram:
		bot, err := telebot.NewBot(telebot.Settings{Token: cfg.TelegramToken})
		if err != nil {
			log.Fatalf("FATAL: Could not create Telegram bot: %v", err)
		}
		channel = telegram.NewTelebotAdapter(bot)
		resolver = delivery.BroadcastResolver{
			Target: delivery.Destination{Address: strconv.FormatInt(cfg.TelegramChannelID, 10)},
		}
		log.Infof("Telegram broadcast channel initialized (chat %d).", cfg.TelegramChannelID)
	case config.ChannelEmail:
		channel = email.NewGomailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SenderEmail, cfg.SenderPass)
		resolver = delivery.AttributeResolver{}
		log.Infof("Email channel initialized (%s:%d, sender %s).", cfg.SMTPHost, cfg.SMTPPort, cfg.SenderEmail)
	}

	reminderService := app.NewReminderServiceImpl(
		eventRepo,
		studentRepo,
		led,
		channel,
		resolver,
		app.EvaluationConfig{
			Thresholds:     thresholds,
			WindowWidth:    cfg.WindowWidth,
			DefaultDueTime: cfg.DefaultDueTime,
			Location:       cfg.Location,
		},
		log,
	)

	reminderScheduler := scheduler.NewReminderScheduler(reminderService, log, cfg.TickInterval)
	if err := reminderScheduler.Start(); err != nil {
		log.Fatalf("FATAL: Could not start reminder scheduler: %v", err)
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application...")
	reminderScheduler.Stop()
	if pl, ok := led.(reminder.PersistentLedger); ok {
		if err := pl.Persist(); err != nil {
			log.Warnf("Final ledger persist failed: %v", err)
		}
	}
	log.Info("Application shut down gracefully.")
}
