// Package docstore is a small Redis-backed document store. Documents are
// JSON blobs addressed by id inside named collections, with a per-collection
// set index for scans.
//
// The query surface is deliberately narrow: FindOne, FindMany, Save
// (insert-or-replace by id), UpdateOne, DeleteOne, and DeleteMany, all over
// field-equality filters. Callers that need richer queries are holding it
// wrong; the auth and task layers only ever filter by equality.
//
// Filters on "_id" take the direct key path; anything else is a linear scan
// over the collection index. There is no compare-and-swap: Save and UpdateOne
// are last-writer-wins, which makes read-modify-write atomicity the caller's
// responsibility.
package docstore
