// Package llm provides a JSON-only chat completion client for
// OpenAI-compatible endpoints (OpenRouter by default).
//
// The judge package uses it to score an interview from the assembled
// transcript and slide timeline; the doctor command uses HealthCheck to
// confirm the key and model are usable before a long run starts.
//
// # Entry Points
//
// NewClient: construct a client from Config.
// Client.CompleteJSON: send system/user prompts, receive the raw JSON payload.
// Client.HealthCheck: verify API key and model availability.
// DecodeJSON: decode a model payload, tolerating code fences and prose.
//
// # Retry Behaviour
//
// Requests are retried on HTTP 408/429/5xx, network timeouts, and responses
// that carry no content. Delays grow exponentially (base 1s, max 10s, five
// attempts by default) and honour Retry-After. Context cancellation aborts
// retries immediately.
package llm
