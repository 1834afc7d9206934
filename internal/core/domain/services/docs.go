// Package services provides domain services that span more than one aggregate.
//
// The package includes:
//   - PartnerAssigner: first-fit selection of a delivery partner under a capacity constraint
//   - NotificationPolicy: which client e-mail, if any, a status change triggers
package services
