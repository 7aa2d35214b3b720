// Package http provides HTTP handlers and middleware for the wedding
// planner API.
//
// The router exposes the following endpoint groups:
//   - POST /sessions, DELETE /sessions/current: session issue and revocation.
//     Tokens surface via the response body, the `X-Session-Token` header, and
//     a `session_token` cookie; requests present them via Authorization
//     bearer header or cookie.
//   - /guests: guest roster management plus POST /guests/import (bulk rows
//     with per-row error reporting), GET /guests/duplicates (advisory email
//     duplicate report), GET /guests/export (CSV download), and
//     PUT /guests/{id}/password for account activation.
//   - /events: wedding event catalog. Responses carry the effective RSVP
//     deadline alongside any stored one. Listing is public; mutations are
//     planner only.
//   - /rsvps: response collection with GET /rsvps/stats serving the
//     aggregated snapshot for planner dashboards.
//   - /faq/categories, /faq/items: the question catalog; public reads,
//     planner writes.
//   - /accommodation/categories, /accommodation/options, /transport/options:
//     travel
//     information; public reads, planner writes.
//   - /flags: feature flag management plus the public
//     GET /flags/evaluate?key=&user= resolution endpoint.
//   - /communications: the planner-only message log with GET
//     /communications/export CSV download.
//   - /chats: guest-to-guest conversations and their messages.
//   - /stories: couple stories; drafts are visible to planners only.
//   - /media/{bucket}: multipart uploads, with stored objects served back
//     under GET /media/.
//   - /realtime/{resource}: websocket change notifications.
//   - /metrics: Prometheus scrape endpoint.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
