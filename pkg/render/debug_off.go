//go:build !rasterdebug

package render

const boundsChecks = false
