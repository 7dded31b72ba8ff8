// Package kvstore provides the durable key to string store behind user
// accounts and the saved configuration.
//
// Backends are memory, file (one JSON object on disk, the local-storage
// analogue) and redis. Typed layers JSON values on top of any backend.
package kvstore
