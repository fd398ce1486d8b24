// Package logging provides structured logging for invoiceqa built on Zap.
//
// The package exposes a small Config that can be embedded in the
// application configuration, a Logger wrapper with child-logger helpers,
// and a TestLogger with assertion helpers for use in tests.
package logging
