// Package partner contains the delivery partner aggregate and its capacity
// bookkeeping.
//
// Capacity is tracked as a reservation counter rather than recomputed from the
// shipments a partner carries. The in-memory Reserve and Release methods
// mirror the atomic conditional updates the persistence layer performs, so the
// same rules hold whether a partner is mutated in a unit test or in postgres.
package partner
