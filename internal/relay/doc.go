// Package relay owns the active model and turns chat requests into backend
// calls. It is split by concern:
//
//   - relay.go: Service type, constructor, read-only accessors.
//   - chat.go: Chat entry point and prompt formatting.
//   - switch.go: model resolution and switching.
//   - errors.go: typed failures and the in-band text they map to.
//   - events.go, eventpub_memory.go: lifecycle event publishing.
//   - metrics.go: Prometheus collectors.
//   - admin.go: runtime health, installed models, pulls.
//
// The active model is a (name, client) pair swapped under a mutex. Every chat
// captures the pair it resolved, so a request is always served by one
// consistent client even while another request switches models.
package relay
