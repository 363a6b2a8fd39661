// Package api provides the HTTP handlers for the vocabulary service:
// authentication, wordbook and word management, scheduled review, casual
// study sessions, and review statistics.
package api
