// Package n8n provides a headless workflow execution runtime for Go.
// Its primary surface is the `n8n execute` command, which runs exactly
// one workflow definition, loaded from a JSON file or looked up in a
// configured store, against the execution engine and reports the
// outcome through the process exit code.
//
// # Architecture
//
// The runtime follows a composable store pattern where each subsystem
// (workflow, credentials, execution) defines its own store interface.
// A single backend implements all of them; Postgres, Bun, Redis, Mongo,
// and Memory backends ship under store/.
//
// Subsystem initialization is overlapped: storage, the node and
// credential type registries, credential overwrites, and lifecycle
// hooks all start initializing eagerly at process entry via boot tasks,
// and each is awaited only at the point it is first required. One
// workflow executes per process lifetime; there is no retry anywhere
// in this core.
//
// All entity IDs use TypeID: type-prefixed, K-sortable, UUIDv7-based
// identifiers.
package n8n
