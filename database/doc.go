// Package database provides connection management, configuration types,
// query logging hooks, SQL error classification and the transaction boundary
// used by repositories, all built on top of Bun.
package database
