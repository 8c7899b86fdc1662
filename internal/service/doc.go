// Package service contains the application services that orchestrate the
// domain: generating readings, enriching them with card imagery, and managing
// a user's reading history. Services depend on the interfaces defined in
// internal/generation and internal/store, never on concrete adapters.
package service
