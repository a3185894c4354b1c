package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// RequestIDHeaderName carries a client-generated id used to correlate
// client and server log lines.
const RequestIDHeaderName = "x-request-id"
