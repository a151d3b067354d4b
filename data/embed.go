// Package data embeds the database provisioning scripts.
package data

import (
	_ "embed"
)

//go:embed initdb/mariadb/001-public-user.sql
var InitdbMariaDBPublicUser string

//go:embed initdb/postgres/001-public-user.sql
var InitdbPostgresPublicUser string
