// Package ipc exposes folco commands to a front end.
//
// A [Router] maps command names to [Command] functions and turns every
// invocation into a [Response] carrying either data or an error string.
// Errors never cross the boundary as values: they are flattened with
// Error(), and a panicking command becomes an error string as well.
//
// The only command the core registers is get_folder_icon_base, built by
// [GetFolderIconBase]. It forwards to the resource guard and returns its
// payload or error unchanged.
//
// Two transports carry requests to the router:
//
//   - HTTP ([NewHTTPHandler]): POST /invoke/:command with the JSON
//     arguments as body, GET /commands, GET /health.
//   - stdio ([ServeStdio]): one JSON [Request] per line in, one JSON
//     [Response] per line out, in completion order.
//
// Each request runs on its own goroutine and gets one OpenTelemetry span.
package ipc
