// Package cli provides the interactive gophauth command-line client.
//
// The REPL started by App.Run supports:
//   - register: create an account (username, email, password)
//   - login:    obtain an access token
//   - whoami:   show the identity carried by the current token
//   - logout:   forget the token
//
// Passwords are read from the terminal without echo and wiped after use.
// The token lives in memory only.
package cli
