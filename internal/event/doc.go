// Package event defines the candidate-event model shared by the labeling
// session, the store, and the training pipeline. An event's feature set
// travels as a compact msgpack payload; the verification flag is the only
// field labeling is allowed to touch.
package event
