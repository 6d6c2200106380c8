package httpx

import "time"

const (
	// SessionCookieName carries the client session ID. The cookie holds
	// only the opaque ID; all auth state lives server-side.
	SessionCookieName = "session_id"

	// SessionCookieMaxAge bounds the cookie lifetime. The durable record
	// store applies its own TTL; an expired record simply settles the
	// session as unauthenticated on the next bootstrap.
	SessionCookieMaxAge = int(30 * 24 * time.Hour / time.Second)
)

const (
	// MaxListLimit caps page sizes requested through query parameters.
	MaxListLimit = 200

	// MaxLoginBodyBytes bounds the login request body.
	MaxLoginBodyBytes = 1 << 16
)
