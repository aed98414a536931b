// Package server provides HTTP routing and the OAuth callback handler for the login flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback flow.
//
// The handler validates the state parameter (CSRF protection), exchanges the authorization code for tokens,
// and sends the result through a channel.
//
// It only processes one callback, so a replayed or duplicated navigation never
// triggers a second exchange of the same code.
//
// # Usage
//
// When the user runs `moodlist auth login`, a temporary HTTP server starts on
// the configured host and port, handles the callback, and shuts down after the
// token is received.
package server
