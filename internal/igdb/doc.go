// Package igdb talks to the IGDB v4 API.
//
// Requests are authenticated with a Twitch client-credentials token that is
// cached on disk until shortly before it expires. Every request waits on a
// fixed-interval limiter so a scan never exceeds the API's request rate.
package igdb
