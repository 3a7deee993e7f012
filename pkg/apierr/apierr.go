// Package apierr defines the JSON error body every endpoint returns.
package apierr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind classifies an error for clients.
type Kind string

const (
	InvalidCredentials  Kind = "InvalidCredentials"
	Unauthorized        Kind = "Unauthorized"
	PersistenceFailure  Kind = "PersistenceFailure"
	UpstreamUnavailable Kind = "UpstreamUnavailable"
	ConflictDetected    Kind = "ConflictDetected"
	BadRequest          Kind = "BadRequest"
	PayloadTooLarge     Kind = "PayloadTooLarge"
	NotFound            Kind = "NotFound"
	RateLimited         Kind = "RateLimited"
	Internal            Kind = "Internal"
)

// Status is the HTTP status each kind maps to.
func (k Kind) Status() int {
	switch k {
	case InvalidCredentials, Unauthorized:
		return http.StatusUnauthorized
	case UpstreamUnavailable:
		return http.StatusBadGateway
	case ConflictDetected:
		return http.StatusConflict
	case BadRequest:
		return http.StatusBadRequest
	case PayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case NotFound:
		return http.StatusNotFound
	case RateLimited:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// Body is the error response shape.
type Body struct {
	Error string `json:"error"`
	Kind  Kind   `json:"kind"`
}

// Abort writes the error body with the kind's status and stops the chain.
func Abort(c *gin.Context, kind Kind, msg string) {
	c.AbortWithStatusJSON(kind.Status(), Body{Error: msg, Kind: kind})
}
