// Package api implements the HTTP surface of the service: request models,
// handlers for authentication, readings, and narration, and the mapping from
// internal errors to safe HTTP responses.
package api
