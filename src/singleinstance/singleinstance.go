package singleinstance

// This file defines the API for single-instance ownership and run-once delegation.

import (
	"context"
)

// Server owns the TCP endpoint and answers run-once requests.
type Server interface {
	// Start binds the first port of the configured range and starts accepting clients.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next returns the next scan request as a Conn, or ctx error.
	Next(ctx context.Context) (Conn, error)
	// Close releases ownership and stops accepting clients.
	Close() error
}

// Conn is one pending SCAN request. Exactly one Respond* call is expected before Close.
type Conn interface {
	// RespondSuccess sends the decoded payload.
	RespondSuccess(payload string) error
	// RespondError sends a human-readable failure.
	RespondError(msg string) error
	// Close closes the underlying connection.
	Close() error
}

// Client attempts to delegate a scan to a resident server.
type Client interface {
	// TryScan scans the configured port range, performs the handshake and asks
	// the resident to run one scan. If no resident is found, returns delegated=false, err=nil.
	TryScan(ctx context.Context) (delegated bool, payload string, err error)
}

// NewServer returns TCP implementation.
func NewServer() Server { return newTcpServer() }

// NewClient returns TCP implementation.
func NewClient() Client { return newTcpClient() }
