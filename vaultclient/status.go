package vaultclient

import (
	"errors"
	"fmt"
)

// ErrUnknownStatus is returned when Vault responds with an HTTP status code
// that is not part of the known classification table.
var ErrUnknownStatus = errors.New("unrecognized vault status code")

// StatusCode is the classification of an HTTP status code returned by the
// Vault v1 API. Only the codes declared below are valid - use
// [ParseStatusCode] to convert from a raw HTTP status code.
type StatusCode int

// Vault overloads some status codes with operational meaning: 429 and 473
// are returned by the health endpoint on standby nodes, which are reachable
// and answering.
//
// See https://developer.hashicorp.com/vault/api-docs#http-status-codes
const (
	SuccessData                  StatusCode = 200
	SuccessNoData                StatusCode = 204
	InvalidRequest               StatusCode = 400
	Forbidden                    StatusCode = 403
	InvalidPath                  StatusCode = 404
	HealthStandbyNode            StatusCode = 429
	HealthPerformanceStandbyNode StatusCode = 473
	InternalServerError          StatusCode = 500
	ThirdPartyError              StatusCode = 502
	VaultMaintenance             StatusCode = 503
)

//nolint:gochecknoglobals
var statusNames = map[StatusCode]string{
	SuccessData:                  "SUCCESS_DATA",
	SuccessNoData:                "SUCCESS_NO_DATA",
	InvalidRequest:               "INVALID_REQUEST",
	Forbidden:                    "FORBIDDEN",
	InvalidPath:                  "INVALID_PATH",
	HealthStandbyNode:            "HEALTH_STANDBY_NODE",
	HealthPerformanceStandbyNode: "HEALTH_PERFORMANCE_STANDBY_NODE",
	InternalServerError:          "INTERNAL_SERVER_ERROR",
	ThirdPartyError:              "THIRD_PARTY_ERROR",
	VaultMaintenance:             "VAULT_MAINTENANCE",
}

// ParseStatusCode classifies a raw HTTP status code. Codes outside the table
// are an error, never a guess.
func ParseStatusCode(code int) (StatusCode, error) {
	s := StatusCode(code)
	if _, ok := statusNames[s]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownStatus, code)
	}

	return s, nil
}

// OK reports whether the status is success-like: 200, 204, and the two
// standby health codes.
func (s StatusCode) OK() bool {
	switch s {
	case SuccessData, SuccessNoData, HealthStandbyNode, HealthPerformanceStandbyNode:
		return true
	default:
		return false
	}
}

// Valid reports whether s is one of the known classifications.
func (s StatusCode) Valid() bool {
	_, ok := statusNames[s]

	return ok
}

func (s StatusCode) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}

	return fmt.Sprintf("StatusCode(%d)", int(s))
}
