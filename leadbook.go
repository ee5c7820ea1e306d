// Package leadbook provides a local, CLI-based tracker for small businesses.
// It searches an external business directory, reconciles results against
// previously saved records, and keeps outreach status and notes for each
// saved business.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, postgres/, http/).
package leadbook
