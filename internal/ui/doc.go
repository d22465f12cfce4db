// Package ui implements the interactive dashboard using bubbletea's Elm architecture.
//
// The TUI starts with a silent session resume and then shows either:
//  1. [LoginView] / [RegisterView] : Account forms
//  2. [DashboardView] : Profile, job search and applications sections
//
// The [Navigator] owns the active section and refuses the job search while the profile is
// incomplete. The [Presenter] holds the single visible notification, which auto-dismisses after
// [NotificationTTL]. Run snapshots from the automation controller and notifications are signalled
// through coalescing channels and read back inside Update, so neither ever blocks the controller.
//
// Keyboard navigation uses tab/shift+tab inside forms and function keys for sections, with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
