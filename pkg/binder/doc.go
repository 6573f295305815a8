// Package binder decodes HTTP request data into typed request structs for
// handler.Wrap.
//
// JSON reads a size-limited application/json body. Unknown fields are accepted
// because voice agent platforms attach their own keys to tool calls. Query
// fills fields tagged `query:"name"` from the URL query string.
//
// A binder that has nothing to read returns ErrNotApplicable and Wrap moves on
// to the next binder, so one request type can be bound from a GET query string
// or a POST body:
//
//	handler.Wrap(svc.currentTime,
//		handler.WithBinders[TimeRequest](binder.Query(), binder.JSON(binder.IgnoreInvalid())),
//	)
package binder
