// Package gemini provides an implementation of the generation.Generator
// interface that uses Google's Gemini API for generating tarot readings.
//
// This package is an infrastructure adapter in the hexagonal architecture,
// connecting the application's domain logic to Google's external Gemini AI
// service. It translates between the application's domain models and the
// Gemini API without exposing the details of the external service to the
// core application.
//
// Key components:
//
// 1. Generator:
//   - Implements the generation.Generator interface
//   - Handles communication with the Gemini API
//   - Processes structured responses into domain models
//
// 2. Prompt Management:
//   - Loads the prompt template from a file
//   - Substitutes the querent's question and spread layout into the template
//
// 3. Response Processing:
//   - Parses structured JSON responses from the API
//   - Validates responses against the exact reading contract
//   - Applies the configured invalid-output policy (fail or degrade)
//
// 4. Error Handling:
//   - Implements retry logic with exponential backoff for transient errors
//   - Categorizes and translates API errors to application-specific errors
//   - Handles content filtering and safety measures
package gemini
