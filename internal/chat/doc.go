// Package chat is the chat-api application: an HTTP front end for the
// Claude Messages API wired together from modules.
//
// AppModule imports HTTPServerModule, ClaudeModule and, when enabled,
// AuthModule. Its controllers register their routes while being
// constructed; the server starts listening in its bootstrap hook once every
// controller exists.
package chat
