// Package workers implements the worker (borrower) registry feature.
//
// Workers are the people equipment is loaned to. Besides the usual CRUD
// the feature stores worker photos in the object storage bucket under
// photos/, keeping only the object key on the record.
//
// Workers are deactivated rather than deleted because loan history
// references them.
//
// # HTTP Endpoints
//
//   - GET    /workers           : List workers (filters: q, active, page)
//   - POST   /workers           : Create a worker
//   - GET    /workers/:id       : Worker detail
//   - PUT    /workers/:id       : Update worker fields
//   - DELETE /workers/:id       : Deactivate a worker
//   - POST   /workers/:id/photo : Upload a photo (multipart)
//   - GET    /workers/:id/photo : Stream the stored photo
package workers
