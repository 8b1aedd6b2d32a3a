// Package middleware contains HTTP middleware for the Fiber status API.
//
// # Components
//
//   - auth: API key validation (X-API-Key) protecting the sync endpoints.
//   - rayid: assigns a RayID to every request, stored in the context locals and
//     echoed in the response headers for tracing.
//
// Health and Swagger routes are registered before auth so they stay public.
package middleware
