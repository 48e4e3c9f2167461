// Package client is the editor's side of the remote page API.
//
// # Overview
//
// Client is the transport-agnostic contract the editor depends on: list,
// get, create, update, delete and publish saved pages. GRPCClient implements
// it over the pagebuilder.PageService gRPC service, encoding documents as
// google.protobuf.Struct.
//
// # Error Handling
//
// gRPC status codes are mapped to sentinel errors that callers can match
// with errors.Is:
//
//   - codes.NotFound                       -> ErrNotFound
//   - codes.InvalidArgument                -> common.ErrInvalidInput
//   - codes.Unavailable, DeadlineExceeded  -> ErrUnavailable
//
// Anything else is wrapped as "rpc error: ...".
//
// Every call is bounded by the client's request timeout in addition to the
// caller's context.
package client
