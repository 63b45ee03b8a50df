// Package server provides the HTTP API: routing, middleware, and the handler groups
// for the music proxy, user library, and admin views.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation registers "METHOD /path/{wildcard}" patterns on [http.ServeMux].
//
// # Handler Interface
//
// Handler groups implement [Handler] by returning a [Route] table. A route may carry its own
// middleware, which is how session and admin checks are attached ([Authenticator.Require],
// [Authenticator.RequireAdmin]).
//
// # Authentication
//
// Clients send "Authorization: Bearer <token>". Tokens are opaque session rows minted by the
// CLI (harmony users token); issuing them over HTTP is out of scope. A missing or unknown token
// is 401, a non-owner modifying a playlist is 403.
//
// # Errors
//
// Handlers return JSON {"message": ...}. Shared sentinel errors map to status codes: invalid
// input 400, unauthorized 401, forbidden 403, not found 404, already exists 409, anything else
// 500 with the cause logged and hidden.
//
// Catalog lookups never fail a request: an unreachable upstream yields an empty payload.
package server
