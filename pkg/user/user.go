package user

type User struct {
	ID       int64
	Username string
	Password []byte
}

// Schema is applied by cmd/aurad on startup; sqlite keeps the dev server
// free of external daemons.
const Schema = `CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	password BLOB NOT NULL
);`
