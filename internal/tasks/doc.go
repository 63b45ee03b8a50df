// Package tasks runs long operations in the background with progress reporting.
//
// # Bulk Export
//
// [Engine.BulkExport] writes many listings to disk concurrently:
//
//   - a producer fetches each id through a [Source], throttled by a rate limiter
//   - a fixed pool of workers renders each fetched listing with [formatter.WriteExport]
//   - the run ends with export_manifest.json summarizing every success and failure
//
// A failed fetch or write marks that listing failed and the run continues.
//
// # Progress Reporting
//
// Operations accept a send-only [ProgressUpdate] channel, which may be nil.
// Sends use select with default so a slow reader drops updates instead of stalling the export.
package tasks
