//go:build flatbin_debug

package serialize

const debugChecks = true
