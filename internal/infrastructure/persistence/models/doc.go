// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Every model has a ToDomain method and a <Model>FromDomain constructor. Aggregates
// rebuilt by ToDomain are marked persisted, so the repositories can tell inserts
// from version-checked updates.
//
// Structure:
//   - base.go: shared columns (BaseModel, AggregateModel, CompanyAggregateModel, AddressColumns)
//   - identity.go: users
//   - company.go: companies and retailer connections
//   - partner.go: retailers and retailer profiles
//   - catalog.go: categories and products
//   - trade.go: orders and order items
//   - logistics.go: employees, trucks and shipments
//   - billing.go: invoices and invoice items
package models
