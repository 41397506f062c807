package notification

import "assetscan/models"

// Notifier surfaces transient feedback to the presentation layer.
type Notifier interface {
	Notify(message string)
}

// Source is the consuming side of a notification channel.
type Source interface {
	C() <-chan models.Notification
	Poll() (models.Notification, bool)
}
