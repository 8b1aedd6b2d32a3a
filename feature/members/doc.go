// Package members implements the membership directory source.
//
// The directory exposes the full member list as
//
//	{"success": true, "data": [{"fullName": "...", "turnstileId": "12345", ...}]}
//
// turnstileId may be a JSON string or number and becomes the identity key pushed to
// the readers. Requests carry an x-api-key header or, when a token URL is configured,
// an OAuth2 client credentials bearer token.
package members
