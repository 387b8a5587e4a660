// Package middleware provides net/http guards for the two request policies:
// access-token protection for resource routes and refresh-session protection
// for the token refresh route. Both read credentials from custom request
// headers rather than the Authorization header, matching the wire contract
// the API clients already speak.
package middleware
