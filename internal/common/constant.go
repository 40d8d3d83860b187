package common

// AuthorizationHeaderName is the HTTP header carrying the bearer access
// token on outbound requests.
const AuthorizationHeaderName = "Authorization"

// MaxOfflineRetries is the ceiling for offline action retries. An action
// that fails this many times is discarded and the failure is surfaced.
const MaxOfflineRetries = 3
