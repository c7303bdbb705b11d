package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	g "maragu.dev/gomponents"
)

// nodeComponent lets a gomponents tree be used where a templ.Component is
// expected, so handlers and the renderer only deal with one type.
type nodeComponent struct {
	node g.Node
}

func (n nodeComponent) Render(ctx context.Context, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n.node == nil {
		return nil
	}
	return n.node.Render(w)
}

// AdaptGomponentToTempl wraps node as a templ.Component.
func AdaptGomponentToTempl(node g.Node) templ.Component {
	return nodeComponent{node: node}
}
