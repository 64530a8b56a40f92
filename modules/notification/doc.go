// Package notification delivers in-app messages to tenant users, with
// optional best-effort email mirroring through the email package.
package notification
