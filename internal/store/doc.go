// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the scheduling and session logic, allowing the domain rules to remain
// independent of specific database technologies.
package store
