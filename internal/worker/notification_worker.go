package worker

import (
	"go.uber.org/zap"

	"github.com/pegasus-hq/support-core/internal/service"
)

// StartNotificationWorker wires the notification service into the event
// dispatcher. Dispatch is synchronous and in-process; starting the worker
// just registers the handlers.
func StartNotificationWorker(notifications *service.NotificationService, logger *zap.Logger) {
	notifications.RegisterHandlers()
	logger.Info("notification worker registered")
}
