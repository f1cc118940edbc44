package repository

import (
	"context"
	"fmt"
	"strings"

	"star-admin-api/internal/model"
)

// Column types per dialect, substituted into the table templates below.
var columnTypes = map[Dialect]*strings.Replacer{
	MySQL: strings.NewReplacer(
		"{pk}", "BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY",
		"{str}", "VARCHAR(255)",
		"{text}", "TEXT",
		"{time}", "DATETIME(6)",
		"{bool}", "BOOLEAN",
		"{int}", "INT",
	),
	Postgres: strings.NewReplacer(
		"{pk}", "BIGSERIAL PRIMARY KEY",
		"{str}", "VARCHAR(255)",
		"{text}", "TEXT",
		"{time}", "TIMESTAMP",
		"{bool}", "BOOLEAN",
		"{int}", "INTEGER",
	),
	SQLite: strings.NewReplacer(
		"{pk}", "INTEGER PRIMARY KEY AUTOINCREMENT",
		"{str}", "TEXT",
		"{text}", "TEXT",
		"{time}", "DATETIME",
		"{bool}", "BOOLEAN",
		"{int}", "INTEGER",
	),
}

const adminsTable = `
CREATE TABLE IF NOT EXISTS admins (
	id {pk},
	user_id {str} UNIQUE,
	name {str} NOT NULL,
	email {str} NOT NULL UNIQUE,
	password {str} NOT NULL,
	otp {int},
	otp_expiry {time},
	created_at {time} NOT NULL,
	updated_at {time} NOT NULL,
	deleted_at {time}
)`

// staffTable is shared by every StaffKind; %s are the table and user id column.
const staffTable = `
CREATE TABLE IF NOT EXISTS %s (
	id {pk},
	image_url {str},
	name {str} NOT NULL,
	%s {str} NOT NULL UNIQUE,
	email {str} NOT NULL UNIQUE,
	password {str} NOT NULL,
	status {bool} NOT NULL DEFAULT TRUE,
	created_at {time} NOT NULL,
	updated_at {time} NOT NULL,
	deleted_at {time}
)`

const usersTable = `
CREATE TABLE IF NOT EXISTS users (
	id {pk},
	dp {str},
	name {str} NOT NULL,
	phone {str} NOT NULL DEFAULT '',
	user_id {str} NOT NULL DEFAULT '',
	email {str} NOT NULL DEFAULT '',
	gender {str} NOT NULL DEFAULT '',
	country {str} NOT NULL DEFAULT '',
	city {str} NOT NULL DEFAULT '',
	user_type {str} NOT NULL DEFAULT 'user',
	status {bool} NOT NULL DEFAULT TRUE,
	created_at {time} NOT NULL,
	updated_at {time} NOT NULL,
	deleted_at {time}
)`

const versionsTable = `
CREATE TABLE IF NOT EXISTS version_control (
	id {pk},
	device_type {str} NOT NULL,
	version {str} NOT NULL,
	status {str} NOT NULL,
	release_date {str} NOT NULL,
	description {text} NOT NULL,
	created_at {time} NOT NULL,
	updated_at {time} NOT NULL
)`

const policiesTable = `
CREATE TABLE IF NOT EXISTS policydocuments (
	id {pk},
	type {str} NOT NULL UNIQUE,
	document {str} NOT NULL,
	created_at {time} NOT NULL,
	updated_at {time} NOT NULL
)`

// Migrate creates every table the API reads or writes if it does not exist.
func Migrate(ctx context.Context, db *DB) error {
	types, ok := columnTypes[db.dialect]
	if !ok {
		return fmt.Errorf("unsupported dialect %q", db.dialect)
	}

	statements := []string{
		adminsTable,
		fmt.Sprintf(staffTable, model.SupportManagers.Table, model.SupportManagers.UserIDColumn),
		fmt.Sprintf(staffTable, model.StarManagers.Table, model.StarManagers.UserIDColumn),
		usersTable,
		versionsTable,
		policiesTable,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, types.Replace(stmt)); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}
	return nil
}
