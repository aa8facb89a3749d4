// Package state provides a lightweight per-user session store for Telegram
// conversation flows. It is intentionally domain-agnostic so the same Manager
// can back different dialog flows; step constants and dispatch live with the
// flows themselves.
package state
