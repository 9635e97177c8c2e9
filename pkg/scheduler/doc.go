// Package scheduler posts a daily lunch suggestion to a configured chat.
// The check runs every minute and fires once per day during the configured hour.
package scheduler
