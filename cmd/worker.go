package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ajit432/hospital-leave/internal/core/database"
	"github.com/ajit432/hospital-leave/internal/core/events"
	"github.com/ajit432/hospital-leave/internal/leave"
	"github.com/ajit432/hospital-leave/pkg/logger"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start background jobs that run next to the HTTP server.`,
}

var reminderWorkerCmd = &cobra.Command{
	Use:   "reminders",
	Short: "Remind administrators about stale pending applications",
	Long:  `Periodically look for leave applications that have been pending for too long and raise a reminder event for each.`,
	Run: func(cmd *cobra.Command, args []string) {
		startReminderWorker()
	},
}

var (
	reminderSchedule string
	staleDays        int
	runOnce          bool
)

func startReminderWorker() {
	config, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	initLogger(config)
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		lg.Error("failed to init db", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	gdb, err := database.NewGorm(db.DB, config.Observability.Logging.Level)
	if err != nil {
		lg.Error("failed to init gorm", "error", err)
		os.Exit(1)
	}

	eventBus := events.NewEventBus(lg)
	leave.NewNotificationHandler(lg).RegisterEventHandlers(eventBus)
	services := buildServices(config, db, gdb, eventBus, lg)

	schedule := getStringFlag(reminderSchedule, config.Worker.ReminderSchedule)
	olderThan := time.Duration(getIntFlag(staleDays, config.Worker.StalePendingDays)) * 24 * time.Hour

	job := func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		count, err := services.Leave.RemindStalePending(ctx, olderThan)
		if err != nil {
			lg.Error("reminder run failed", "error", err)
			return
		}
		if err := eventBus.Wait(ctx); err != nil {
			lg.Warn("reminder handlers did not finish", "error", err)
		}
		lg.Info("reminder run finished", "stale_applications", count)
	}

	if runOnce {
		job()
		return
	}

	c := cron.New(cron.WithLocation(config.Leave.Location()))
	if _, err := c.AddFunc(schedule, job); err != nil {
		lg.Error("invalid reminder schedule", "schedule", schedule, "error", err)
		os.Exit(1)
	}
	c.Start()

	lg.Info("reminder worker started", "schedule", schedule, "older_than", olderThan.String())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	lg.Info("received signal, shutting down reminder worker", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	select {
	case <-c.Stop().Done():
		lg.Info("reminder worker shutdown complete")
	case <-ctx.Done():
		lg.Warn("shutdown timeout reached, forcing exit")
	}
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	reminderWorkerCmd.Flags().StringVar(&reminderSchedule, "schedule", "", "Cron schedule (overrides config)")
	reminderWorkerCmd.Flags().IntVar(&staleDays, "stale-days", 0, "Days an application may stay pending before a reminder (overrides config)")
	reminderWorkerCmd.Flags().BoolVar(&runOnce, "once", false, "Run a single pass and exit")

	workerCmd.AddCommand(reminderWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
