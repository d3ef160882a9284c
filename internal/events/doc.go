// Package events carries account lifecycle notifications between components.
//
// Services publish an Event when something noteworthy happens to a user
// (signup, account deletion) without knowing who listens. Handlers such as
// the mail notifier subscribe through an EventEmitter.
package events
