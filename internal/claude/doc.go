// Package claude provides ClaudeModule, a configurable module exposing a
// Service over the Anthropic Messages API.
package claude
