// Package shipment contains the Shipment aggregate and its event-sourced
// status timeline.
//
// A shipment never stores its status as an editable field. Every status
// change, location scan and cancellation is an immutable Event appended to the
// shipment's Timeline, and the current status is the status of the newest
// event. The aggregate caches that value so readers get it in O(1), and the
// persistence layer mirrors the cache in the same transaction as the event
// insert.
//
// Status changes follow a forward-only graph (see Status). Delivered and
// Cancelled are terminal: once reached, the timeline is closed.
//
// The package also holds the tag catalogue (TagName) and the Review entity,
// which hangs off a delivered shipment and exists at most once per shipment.
package shipment
