//go:build !hilitedebug

package highlight

import "github.com/zjrosen/hilite/internal/log"

// invariant reports whether ok holds. A violation means the sweep itself is
// inconsistent; it is logged and the caller skips the offending atom. Build
// with -tags hilitedebug to panic instead.
func invariant(ok bool, msg string, fields ...any) bool {
	if !ok {
		log.Warn(log.CatEngine, "invariant violated: "+msg, fields...)
	}
	return ok
}
