// Package catalog implements the protective-equipment catalog feature.
//
// It manages the items workers can borrow (helmets, gloves, goggles...)
// grouped into categories, each carrying a stock counter and a minimum
// threshold for restock alerts.
//
// The stock counter itself is owned by the reconciliation engine
// (core/stock): the catalog sets it once at item creation and afterwards
// only reads it. Item updates deliberately have no stock field.
//
// # Components
//
//   - Service: CRUD over items and categories plus the low-stock listing.
//   - Handler: Exposes the HTTP endpoints.
//   - Loader: Registers the feature with the application.
//
// # HTTP Endpoints
//
//   - GET    /items            : List items (filters: q, category, active, page)
//   - GET    /items/low-stock  : Items below their minimum stock
//   - POST   /items            : Create an item
//   - GET    /items/:id        : Item detail
//   - PUT    /items/:id        : Update item fields (never stock)
//   - DELETE /items/:id        : Delete an item without loans
//   - GET    /categories       : List categories
//   - POST   /categories       : Create a category
package catalog
