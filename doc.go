// Package todobackend implements the authentication core of a personal
// task-management backend: credential verification, signed short-lived access
// tokens, per-device refresh sessions stored on the user document, and a
// fixed-window abuse tracker keyed by client address.
//
// The engine is assembled through the builder:
//
//	engine, err := todobackend.New().
//		WithConfig(cfg).
//		WithRedis(rdb).
//		Build()
//
// The integration surface for HTTP applications is intentionally small: the
// two admission policies in the middleware package, token issuance
// ([Engine.IssueAccessToken]), and the composite [Engine.Signup] and
// [Engine.Login] flows. List and task storage for the CRUD surface lives in
// the tasks package on top of the same document store.
package todobackend
