package logic

// InputHandler is the entry point for raw button edges. HandleEdge runs in
// the edge-delivery context: it filters the edge and applies the resulting
// transition, and never blocks or performs I/O. Rendering is left to the
// foreground loop via SharedState.Pending.
type InputHandler struct {
	filter *EdgeFilter
	state  *SharedState
}

// NewInputHandler wires a filter to the state it feeds.
func NewInputHandler(filter *EdgeFilter, state *SharedState) *InputHandler {
	return &InputHandler{filter: filter, state: state}
}

// HandleEdge reports whether e was accepted and applied.
func (h *InputHandler) HandleEdge(e Edge) bool {
	if !h.filter.Accept(e) {
		return false
	}
	return h.state.Apply(h.state.ActionFor(e.Line))
}
