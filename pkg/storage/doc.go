// Package storage provides the key-value backends behind the lunch data.
// Store persists JSON values in BadgerDB; Memory keeps them in a map.
package storage
