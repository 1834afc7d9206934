// Package errs provides the typed errors shared by the shipment domain, the
// application layer and the transport adapters.
//
// Every kind follows the same shape:
//   - a sentinel variable (e.g., ErrCapacityExceeded) callers match with errors.Is
//   - a struct carrying the details of one occurrence
//   - constructors with and without a cause
//   - Unwrap returning the sentinel
//
// The HTTP adapter maps sentinels to status codes, so a new kind only needs a
// sentinel here and one line in that mapping table.
package errs
