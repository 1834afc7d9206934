// Package kernel provides the value objects shared by every aggregate of the
// shipment domain:
//   - UUID: identifier of shipments, events, partners, sellers and reviews
//   - PostalCode: delivery area used for routing and for event locations
//   - Email: normalised mailbox address of accounts and shipment contacts
//
// Values are immutable and must be obtained from their constructors; zero
// values fail Validate.
package kernel
