// Package derive computes the read-only views shown by the catalog, order and
// phone database pages. Every function is pure: it never mutates its inputs
// and returns freshly allocated slices.
package derive
