package logging

// ANSI sequences for the four levels this module actually logs at
// (Error/Warn/Info/Debug-or-louder), plus the neutral/reset pair Log uses to
// frame the timestamp and message body. Every tagged child logger in this
// module (peerlink, ice, dtls, sctp, signaling, peerlinkd, ...) shares this
// same four-color table — there is no per-tag coloring.
var (
	ansiWhite = []byte("\033[37m")
	ansiReset = []byte("\033[0m")

	ansiBoldRed    = []byte("\033[1;31m") // Error
	ansiBoldYellow = []byte("\033[1;33m") // Warn
	ansiBoldGreen  = []byte("\033[1;32m") // Info
	ansiBoldCyan   = []byte("\033[1;36m") // Debug and every numeric Trace level
)
