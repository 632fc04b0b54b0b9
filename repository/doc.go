// Package repository provides a generic repository built on Bun that
// coordinates entity creation, validation, persistence, transactions and
// before/after hooks around save and delete.
package repository
