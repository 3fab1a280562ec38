// Package llm provides an OpenAI-compatible chat completion client used to
// produce translated metadata.
//
// # Entry Points
//
// NewClient: construct a client from Config.
// Client.Complete: send system/user prompts, receive the raw assistant text.
// Client.CompleteJSON: Complete followed by tolerant JSON decoding.
// Client.HealthCheck: verify the API key and model are usable.
// DecodeLLMJSON: decode JSON wrapped in code fences or surrounding prose.
//
// # Retry Behaviour
//
// Transport errors, 408/409/429 and 5xx responses are retried by the OpenAI
// SDK (max_retries). Empty completions are retried by the client with
// exponential backoff. Context cancellation aborts retries immediately.
package llm
