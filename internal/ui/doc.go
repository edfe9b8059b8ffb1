// Package ui implements the Bubble Tea terminal interface: sign-in with
// two-factor verification, the dashboard, and the books, orders, and staff
// screens. Every remote call runs as a tea.Cmd so the event loop never
// blocks, and every meaningful keypress refreshes the inactivity clock.
package ui
