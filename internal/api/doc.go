// Package api handles incoming HTTP requests: request decoding and validation,
// response formatting, and the mapping of service errors to status codes.
// Handlers are thin adapters over the service layer, which owns every
// authorization decision.
package api
