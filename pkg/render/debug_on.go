//go:build rasterdebug

package render

// boundsChecks turns out-of-range texel reads into panics.
const boundsChecks = true
