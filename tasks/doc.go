// Package tasks implements the to-do domain: lists owned by a user and tasks
// owned by a list. All state lives in the shared document store; ownership is
// enforced by filtering on the owner id, never by trusting ids from the
// request alone.
package tasks
