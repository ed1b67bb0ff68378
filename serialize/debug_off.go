//go:build !flatbin_debug

package serialize

const debugChecks = false
