// Package models contains GORM persistence models that map to database tables.
// They are kept separate from domain entities so the domain layer stays free
// of ORM tags; each model converts with ToDomain and a FromDomain constructor.
//
// Tables live in the public schema and every tenant-owned table carries a
// tenant_id column. The SQL migrations under migrations/ are authoritative;
// All() lists the models for AutoMigrate in tests.
package models
