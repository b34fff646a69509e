// Package adapter provides the remote implementation of [store.Backend]:
// every query is executed against the lifelog sync server over HTTP/REST.
//
// The connection is lazy. Constructing the backend never touches the
// network; a server that is unreachable at call time surfaces as
// [store.ErrNetworkUnavailable], and non-2xx responses are mapped back to
// the store sentinel the server-side backend originally produced (409 to
// [store.ErrDuplicateTagName], 404 to the operation's not-found sentinel,
// and so on) so callers can use [errors.Is] without knowing which variant
// is active.
package adapter
