// Package loans implements the loan and request workflows, the write
// side of the stock reconciliation engine.
//
// Every loan write runs inside a single database transaction together
// with its stock reconciliation. A create applies the loan's effect, an
// update applies the difference between the persisted and the new state,
// and a delete reverses the last applied effect. When the reconciler
// rejects a movement the surrounding record write rolls back with it.
//
// Requests are a separate approval workflow that never touches stock.
// Only fulfillment does: it creates an ISSUED loan, debits stock and
// flips the request to FULFILLED, all in one transaction.
//
// # HTTP Endpoints
//
//   - GET    /loans                 : List loans (filters: worker, item, status, page)
//   - POST   /loans                 : Create a loan (debits stock)
//   - GET    /loans/:id             : Loan detail
//   - PUT    /loans/:id             : Update a loan (reconciles the difference)
//   - DELETE /loans/:id             : Delete a loan (reverses its effect)
//   - POST   /loans/:id/return      : Close as returned (stock comes back)
//   - POST   /loans/:id/lost        : Close as lost
//   - POST   /loans/:id/damaged     : Close as damaged
//   - GET    /requests              : List requests
//   - POST   /requests              : Create a pending request
//   - GET    /requests/:id          : Request detail
//   - POST   /requests/:id/approve  : Approve a pending request
//   - POST   /requests/:id/reject   : Reject a pending request
//   - POST   /requests/:id/cancel   : Cancel a pending or approved request
//   - POST   /requests/:id/fulfill  : Create the loan for an approved request
package loans
