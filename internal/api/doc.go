// Package api implements the HTTP REST API and WebSocket server for locmux.
//
// This package provides:
//   - REST endpoints for monitoring status, journal history, and permission requests
//   - WebSocket hub for real-time fix, config, and authorization broadcasts
//   - JWT authentication with ticket-based WebSocket auth
//   - Middleware stack (request ID, logging, recovery, CORS)
//
// # Architecture
//
// The API server sits beside the monitoring manager as a read-mostly
// surface. Status and history queries are served from the manager snapshot
// and the SQLite journal; permission requests are forwarded to the manager,
// whose eventual authorization transition arrives back on the WebSocket
// authorization channel:
//
//	HTTP client ──▶ Server ──▶ Monitor (status, permission requests)
//	                   │
//	                   └─────▶ Journal (recent fixes / failures / config)
//
//	Monitor ──Broadcast(channel, payload)──▶ Hub ──▶ subscribed WS clients
//
// Channels are "fixes", "config", and "authorization"; clients opt in per
// channel with a subscribe message.
//
// # Security
//
// Authentication uses HS256 JWT bearer tokens. WebSocket connections use
// single-use tickets to prevent token leakage in URLs.
package api
