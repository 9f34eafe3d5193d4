package clients

import "time"

const (
	MAX_RETRIES     = 5
	INITIAL_BACKOFF = 1 * time.Second
	MAX_BACKOFF     = 32 * time.Second
	USER_AGENT      = "sentigen-client/1.0 (+https://github.com/spacesedan/sentigen)"
)

const (
	PROD_REQUEST_TIMEOUT = 10 * time.Second
	DEV_REQUEST_TIMEOUT  = 60 * time.Second
)

// RequestTimeout mirrors the production/dev split used by every HTTP-backed
// engine client.
func RequestTimeout(env string) time.Duration {
	if env == "production" {
		return PROD_REQUEST_TIMEOUT
	}
	return DEV_REQUEST_TIMEOUT
}
