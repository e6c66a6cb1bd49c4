package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/ajit432/hospital-leave/internal/core/events"
	"github.com/ajit432/hospital-leave/internal/leave"
	"github.com/ajit432/hospital-leave/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Inspect the leave notification handlers without going through the API.`,
}

var publishEventCmd = &cobra.Command{
	Use:       "publish [event-type]",
	Short:     "Publish a sample event to the notification handlers",
	Long:      `Publish a sample leave event to the in-process bus with the notification handlers registered.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{events.EventTypeLeaveApplied, events.EventTypeLeaveReviewed, events.EventTypeBalanceAllocated, events.EventTypePendingLeaveStale},
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishSampleEvent(args[0])
	},
}

var (
	eventDoctorID int64
	eventAppID    int64
)

func publishSampleEvent(eventType string) error {
	lg := logger.LoggerWrapper()

	eventBus := events.NewEventBus(lg)
	leave.NewNotificationHandler(lg).RegisterEventHandlers(eventBus)

	event, err := sampleEvent(eventType)
	if err != nil {
		return err
	}

	lg.Info("publishing sample event", "event_type", eventType, "event_id", event.EventID())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := eventBus.PublishSync(ctx, event); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}

func sampleEvent(eventType string) (events.Event, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	switch eventType {
	case events.EventTypeLeaveApplied:
		return events.NewLeaveAppliedEvent(eventAppID, eventDoctorID, 1, today, today.AddDate(0, 0, 2), 3), nil
	case events.EventTypeLeaveReviewed:
		return events.NewLeaveReviewedEvent(eventAppID, eventDoctorID, 1, "approved", 3, "sample review"), nil
	case events.EventTypeBalanceAllocated:
		return events.NewBalanceAllocatedEvent(eventDoctorID, 1, today.Year(), 21), nil
	case events.EventTypePendingLeaveStale:
		return events.NewPendingLeaveStaleEvent(eventAppID, eventDoctorID, today.AddDate(0, 0, -5)), nil
	}
	return nil, fmt.Errorf("unknown event type %q", eventType)
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventDoctorID, "doctor-id", 1, "Doctor the sample event refers to")
	publishEventCmd.Flags().Int64Var(&eventAppID, "application-id", 1, "Application the sample event refers to")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
