// Package domain defines the core business entities for confadmin.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceRecord: A server-held external feed configuration
//   - EditableSource: A locally edited copy of a SourceRecord
//   - SourceDraft: A not-yet-created source
//   - Event: A conference the signed-in user can see
//   - Submission, Rating, VoteRow: Vote analytics inputs and rows
//   - Conflict, Similarity: Server-computed submission relations
//   - EventUser: A user's permission on an event
//   - Session: The signed-in user's token and active event
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
