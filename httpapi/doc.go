// Package httpapi exposes the engine and task repository over HTTP: signup,
// login and access-token refresh plus the list/task CRUD routes. Token
// material travels in the x-access-token and x-refresh-token headers, which
// are exposed cross-origin so browser clients can read them.
package httpapi
