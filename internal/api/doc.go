// Package api handles incoming HTTP requests, request validation and response
// formatting. It adapts HTTP to the deck and study services; routing lives in
// the server command.
package api
