// Package http implements the HTTP request handlers for the sheet analysis
// service. It is a thin layer between transport and business logic: handlers
// parse and validate requests, delegate to services, and transform service
// errors into RFC 7807 responses.
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → SheetService → sheets/dataprocessing
//	                                              ↓
//	HTTP Response ← render.JSON ← Handler ←──────┘
package http
