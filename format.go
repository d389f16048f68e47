// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package effect

import (
	"fmt"
	"strings"
)

// String reconstructs the combinator expression that built e, walking the
// node graph: Success(1) prints as "Success(1)", AndThen(Success(1), f) as
// "AndThen(Success(1), <fn>)". Captured functions and runtime operations
// are opaque, so the reconstruction names them without their arguments;
// it identifies how an effect was assembled, it is not an evaluator.
// Effects carrying opaque functions compare by this reconstruction, not by
// value equality.
func (e Effect[A]) String() string {
	var b strings.Builder
	writeNode(&b, e.n)
	return b.String()
}

func writeNode(b *strings.Builder, n node) {
	switch t := n.(type) {
	case *successNode:
		fmt.Fprintf(b, "Success(%v)", t.v)
	case *throwNode:
		fmt.Fprintf(b, "Throw(%v)", t.err)
	case *dependNode:
		b.WriteString("Depend[")
		b.WriteString(t.capability)
		b.WriteString("]")
	case *callableNode:
		switch t.class {
		case dispatchIO:
			b.WriteString("BlockingIO(<fn>)")
		case dispatchCPU:
			b.WriteString("BlockingCPU(<fn>)")
		default:
			b.WriteString("Suspend(<fn>)")
		}
	case *futureNode:
		b.WriteString("FromFuture(<future>)")
	case *bindNode:
		b.WriteString("AndThen(")
		writeNode(b, t.src)
		b.WriteString(", <fn>)")
	case *mapNode:
		b.WriteString("Map(")
		writeNode(b, t.src)
		b.WriteString(", <fn>)")
	case *thenNode:
		b.WriteString("DiscardAndThen(")
		writeNode(b, t.src)
		b.WriteString(", ")
		writeNode(b, t.next)
		b.WriteString(")")
	case *recoverNode:
		b.WriteString("Recover(")
		writeNode(b, t.src)
		b.WriteString(", <fn>)")
	case *eitherNode:
		b.WriteString("Either(")
		writeNode(b, t.src)
		b.WriteString(")")
	case *ensureNode:
		b.WriteString("Ensure(")
		writeNode(b, t.src)
		b.WriteString(", ")
		writeNode(b, t.fin)
		b.WriteString(")")
	case *memoNode:
		b.WriteString("Memoize(")
		writeNode(b, t.src)
		b.WriteString(")")
	case *provideNode:
		b.WriteString("Provide(")
		writeNode(b, t.src)
		fmt.Fprintf(b, ", %T)", t.instance)
	case *opNode:
		if t.name == "" {
			b.WriteString("<op>")
			return
		}
		b.WriteString(t.name)
		b.WriteString("(...)")
	default:
		b.WriteString("<node>")
	}
}
