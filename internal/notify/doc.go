// Package notify sends account lifecycle mail: a welcome message after
// signup and a farewell message after an account is deleted.
//
// Delivery is fire-and-forget. MailHandler subscribes to user events and
// hands each mail to a background dispatcher; failures are logged and counted
// but never reach the request that triggered them.
package notify
