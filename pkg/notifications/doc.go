// Package notifications stores in-app notifications and pushes them to
// listening clients.
//
// Manager.Send writes the row first and then attempts realtime delivery; a
// delivery failure is logged and the notification stays in the inbox.
// Notifications carrying a DedupeKey are inserted at most once per user, so a
// redelivered payment-provider event does not produce a second inbox entry.
package notifications
