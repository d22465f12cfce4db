// Package models defines domain entities for the cogniapply dashboard client.
//
// The package contains three categories of types:
//
// 1. Wire types: structs exchanged with the automation backend
//   - [Profile] : The stored user profile, including document URLs and platform credentials
//   - [ProfileForm] : The profile save payload with its required-field rules
//   - [SearchCriteria] : Parameters of one automation run
//   - [JobApplication] : One outcome reported by a completed run
//
// 2. Client state: values the dashboard keeps between launches
//   - [Session] : The logged in identity used for every authenticated call
//   - [Section] : The dashboard section last shown
//
// 3. Persistent Entities: Database-backed models with full lifecycle management
//   - [ApplicationRecord] : A cached run outcome with sequence ordering and soft delete
//
// Persistent entities implement the Model interface providing ID generation, timestamps, and validation.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
