// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - AuthAPI: Password login and OIDC code exchange
//   - EventAPI: Event listing, creation and details
//   - SourceAPI: Source fetch, create-or-update and delete
//   - SubmissionAPI: Submissions, ratings, conflicts and similarities
//   - UserAPI: Event user permissions and user search
//   - SessionStore: Token and active event persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Notifier: Outcome reporting. Without it, outcomes are only returned as errors.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
