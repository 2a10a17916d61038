// Package reports renders CSV exports over loans and stock and archives
// snapshots of them under reports/ in the object storage bucket.
//
// # HTTP Endpoints
//
//   - GET  /reports/loans.csv      : Loans export (filters: status, worker)
//   - GET  /reports/stock.csv      : Stock position of active items
//   - POST /reports/loans/archive  : Store a loans snapshot in the bucket
//   - GET  /reports/archives       : List stored snapshots
//   - GET  /reports/archives/:key  : Download one snapshot
package reports
