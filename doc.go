// Package main provides the entry point for the ClipDeck backend.
// ClipDeck is a group-scoped video sharing service: users create and join
// visibility groups via shareable access codes, upload clips into a group,
// and browse a recency-ordered feed decorated with per-user view and like
// state. The service runs a JSON API on the Fiber framework, persists to
// Postgres via gorm and stores video files in S3-compatible object storage.
package main
