package utils

// HTTP Header Constants
const (
	// Standard HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderContentLength = "Content-Length"
	HeaderUserAgent     = "User-Agent"
	HeaderCacheControl  = "Cache-Control"

	// Request/Response Tracking Headers
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"
	HeaderSessionID     = "X-Session-ID"

	// Client IP Headers (priority order)
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderXRealIP       = "X-Real-IP"

	// Security Headers
	HeaderXContentTypeOptions = "X-Content-Type-Options"
	HeaderXFrameOptions       = "X-Frame-Options"

	// CORS Headers
	HeaderAccessControlAllowOrigin  = "Access-Control-Allow-Origin"
	HeaderAccessControlAllowMethods = "Access-Control-Allow-Methods"
	HeaderAccessControlAllowHeaders = "Access-Control-Allow-Headers"

	// Authorization Headers
	HeaderAuthorization = "Authorization"
)

// Content Type Constants
const (
	ContentTypeJSON = "application/json"
)

// Cache Control Values
const (
	CacheControlNoStore = "no-cache, no-store, must-revalidate"
)

// Security Header Values
const (
	XContentTypeOptionsNoSniff = "nosniff"
	XFrameOptionsDeny          = "DENY"
)

// CORS Values
const (
	CORSAllowOriginAll  = "*"
	CORSAllowMethodsAll = "POST, GET, OPTIONS, PUT, DELETE"
	CORSAllowHeadersStd = "Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Request-ID, X-Session-ID"
)

// Service Values
const (
	ServiceName = "Agent-Gateway/1.0"
)
