// Package labeling owns the per-user labeling session protocol: sample an
// unverified event, render it through the messaging front-end, wait for a
// verdict, persist it, advance. Session state lives in-process, keyed by
// user identity, and is only ever touched through the Manager.
package labeling
