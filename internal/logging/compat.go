package logging

import (
	"fmt"
	"os"
)

// Fatal and Fatalf give cmd/peerlinkd the stdlib log.Fatal idiom ("log an
// error, then exit non-zero") routed through this module's own
// tagged/leveled/colored output instead of an unadorned stderr write. The
// rest of the teacher's migration-compat surface (Fatalln, Panic*, Print*)
// had no caller anywhere in this module and was dropped rather than kept
// unreachable.

func (log *Logger) Fatal(v ...interface{}) {
	log.Log(Error, 1, "%s", fmt.Sprint(v...))
	os.Exit(1)
}

func (log *Logger) Fatalf(format string, v ...interface{}) {
	log.Log(Error, 1, format, v...)
	os.Exit(1)
}
