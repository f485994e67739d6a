// Package db embeds the relational schema shared by the API server, the
// console and the maintenance tools.
package db

import _ "embed"

// Schema contains the idempotent DDL for clientes, produtos, pedidos and
// comprovantes.
//
//go:embed migrations/001_schema.sql
var Schema string
