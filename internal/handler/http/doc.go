// Package http is the REST surface of the reference mutation service.
//
// Mutation routes apply client mutations keyed by the Idempotency-Key
// header; a replayed key answers 200 with X-Idempotent-Replay instead of
// applying twice. Requests pass trace id, access logging, gzip, bearer
// token and HashSHA256 payload checks before they reach the service layer.
package http
