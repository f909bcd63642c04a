// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation through the X-API-Key header.
//   - rayid: a request id (RayID) per request, stored in the "ray_id" local
//     and echoed in the X-Ray-ID response header for tracing.
//
// RayID is registered first so that every later log line carries the id.
package middleware
