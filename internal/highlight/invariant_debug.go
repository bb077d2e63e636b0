//go:build hilitedebug

package highlight

import "fmt"

func invariant(ok bool, msg string, fields ...any) bool {
	if !ok {
		panic(fmt.Sprintf("highlight: invariant violated: %s %v", msg, fields))
	}
	return ok
}
