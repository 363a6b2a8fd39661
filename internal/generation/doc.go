// Package generation provides interfaces for interacting with external
// AI/LLM services. It abstracts the details of LLM API integration (Gemini),
// allowing the application to generate example sentences for vocabulary
// words without coupling to a specific external service.
package generation
