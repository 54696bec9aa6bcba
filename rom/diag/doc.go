// Package diag defines the structured events the ROM codecs emit instead of
// logging.
//
// Codecs never print. Conditions that do not stop a resource from being
// written (a truncated table, free space, an overflowing block, duplicate
// records) are reported to a Sink as Events so that a full rebuild can finish
// and surface every issue at once. Fatal conditions are returned as errors.
//
// Report collects events and pre-computes summaries; SlogSink forwards them
// to a *slog.Logger; Discard drops them.
package diag
