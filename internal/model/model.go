// Package model contains the domain models shared across the HTTP, service
// and repository layers. Types here carry no persistence or framework tags
// beyond JSON serialization; derived values (roles, yields, durations) are
// computed by small methods or at the service layer.
package model
