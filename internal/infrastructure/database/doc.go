// Package database provides SQLite connectivity for chat history.
//
// It wraps database/sql with directory creation, pragma setup (WAL,
// busy timeout, foreign keys), and a small versioned migration runner.
//
// SQLite is opened with a single connection: the pipeline is
// single-writer by design and one connection sidesteps lock contention.
package database
