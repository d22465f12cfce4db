// Package services talks to the job-application automation backend.
//
// # Transport
//
// [APIService] owns the HTTP client. Every authenticated request carries HTTP Basic
// credentials taken from the current session; without one it fails with
// [shared.AuthError] before anything is sent. Requests pass through a
// [rate.Limiter] configured from backend.requests_per_second.
//
// # Error Handling
//
// Services use typed errors from the shared package:
//   - [shared.ValidationError] : A form field failed client-side checks, nothing was sent
//   - [shared.AuthError] : No session is loaded
//   - [shared.ServerError] : The backend answered non-2xx; Message carries its detail
//   - [shared.TransportError] : The backend could not be reached
//
// # Operations
//
//   - [AuthService] : Register, login, logout and silent resume of a stored session
//   - [ProfileService] : Profile fetch/save with document upload, and the cached copy used for completeness checks
//   - [AutomationService] : Start and stop runs, fetch application history
package services
