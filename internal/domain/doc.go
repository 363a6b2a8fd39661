// Package domain contains the core business entities and pure domain logic
// of the vocabulary trainer: words, wordbooks, per-word schedules, review
// logs, and the casual-mode mastery model. It is independent of storage and
// delivery mechanisms.
package domain
