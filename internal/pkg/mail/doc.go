// Package mail defines the contract for sending email messages.
//
// Use cases depend on the Mail interface and Message payload only; the
// concrete delivery mechanism lives in this package so the provider can be
// swapped without touching callers.
package mail
