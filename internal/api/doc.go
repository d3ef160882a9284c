// Package api handles incoming HTTP requests, request validation, and
// response formatting. It adapts the user and task services to the REST
// surface: every failure is mapped to a status code and a client-safe
// message by HandleAPIError.
package api
