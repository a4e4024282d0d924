// Package awsclient aggregates the client-runtime configuration consumed
// by generated service clients: connection, security, retry, and parameter
// validation settings, plus asynchronous credential resolution from a
// prioritized source chain.
package awsclient
