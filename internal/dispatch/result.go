package dispatch

import "fmt"

// Synthetic status codes for outcomes that never reached a remote.
const (
	// codeRequestError marks transport failures and client-side
	// validation failures. It renders without a numeric code, matching
	// the "Request error: <detail>" result contract.
	codeRequestError = 0

	// codeVirtualOK is the synthetic success code returned for virtual
	// entity mutations that skip the network entirely.
	codeVirtualOK = 200
)

// Result is the normalised outcome of a dispatch, regardless of which
// path produced it (control-plane call, base-station call, or local
// settings mutation).
type Result struct {
	// Code is the HTTP status code, the synthetic 200 for virtual
	// mutations, or 0 for request-level failures.
	Code int

	// Detail carries the remote response body or error description for
	// failures. Empty on success.
	Detail string
}

// OK reports whether the dispatch succeeded. Callers branch only on this.
func (r Result) OK() bool {
	return r.Code >= 200 && r.Code < 300
}

// String renders the result in the "<code>: OK" / "<code>: <detail>" /
// "Request error: <detail>" contract exposed to the orchestrator.
func (r Result) String() string {
	switch {
	case r.OK():
		return fmt.Sprintf("%d: OK", r.Code)
	case r.Code == codeRequestError:
		return "Request error: " + r.Detail
	default:
		return fmt.Sprintf("%d: %s", r.Code, r.Detail)
	}
}

// ok builds a success result for the given status code.
func ok(code int) Result {
	return Result{Code: code}
}

// remoteErr builds a result for a non-2xx remote response.
func remoteErr(code int, body string) Result {
	return Result{Code: code, Detail: body}
}

// requestErr builds a result for a failure that never produced a remote
// status: transport errors, timeouts, and client-side validation.
func requestErr(detail string) Result {
	return Result{Code: codeRequestError, Detail: detail}
}
