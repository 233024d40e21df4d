// Package auth guards chat-api routes with HS256 bearer tokens.
package auth
