// Package dispatch decides which supplier a new RFQ should rotate to and
// how outstanding dispatch records rank by SLA urgency. Scoring and
// ordering are pure functions; RotationManager wraps them with capability
// gating, ops event recording and observability.
package dispatch
