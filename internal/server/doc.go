// Package server provides HTTP routing, middleware, and an in-memory development backend.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally and registers "METHOD /path" patterns,
// so one path may serve several methods and unknown methods answer 405.
//
// # Development Backend
//
// [Backend] speaks the same wire contract as the automation backend:
//
//	POST /register          → create an account (JSON)
//	POST /login             → verify credentials (JSON)
//	GET  /profile           → stored profile with document URLs (Basic auth)
//	POST /profile           → save profile fields and documents (multipart, Basic auth)
//	POST /delete-file       → remove the resume or cover letter (Basic auth)
//	POST /apply             → start a simulated automation run (Basic auth)
//	GET  /applications      → application history (Basic auth)
//	POST /stop-automation   → cancel the running automation (Basic auth)
//	GET  /users/{u}/{file}  → stored document named by resume_url or cover_letter_url
//	GET  /ws/{username}     → push channel carrying status, complete, error and heartbeat events
//
// Events produced before the client connects are queued per user and flushed once the channel opens.
// Only the most recent channel of a user receives events.
//
// [ListenAndServe] runs a handler until its context is cancelled and then shuts down gracefully.
package server
