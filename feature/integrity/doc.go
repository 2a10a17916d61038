// Package integrity runs deployment health checks: database schema
// completeness, object storage bucket presence and stock counter sanity.
//
// A negative stock counter is always a FAIL; the application-level
// guard keeps counters non-negative, so a negative value means
// something wrote around it. Items below their configured minimum are
// reported as WARN.
//
// # HTTP Endpoints
//
//   - GET  /integrity            : Run all checks (503 when any fails)
//   - GET  /integrity/:name      : Run one check
//   - POST /integrity/:name/fix  : Repair the checked condition
package integrity
