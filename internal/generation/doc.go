// Package generation provides interfaces and validation for interacting
// with external AI/LLM services that produce tarot readings. It abstracts
// the details of LLM API integration (Gemini), allowing the application to
// turn a free-text query and a spread size into a validated Reading without
// coupling to a specific external service.
package generation
