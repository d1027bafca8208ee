//go:build debug

package dbg

// On is true when the binary was built with the "debug" tag. Code inside
// "if dbg.On { ... }" is removed from release builds by the compiler.
const On = true

const mode = Debug
