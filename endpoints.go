package newsbot

const (
	// DefaultEndpoint is the X API v2 create-post URL. It is also the base URL
	// that gets signed, so it must not carry a query string.
	DefaultEndpoint = "https://api.x.com/2/tweets"

	// endpointCreatePost names the operation for rate limiting and metrics.
	endpointCreatePost = "CreatePost"
)
