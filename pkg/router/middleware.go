package router

// Middleware wraps a handler (e.g. logging, permission checks, metrics).
// The wrapped value keeps the same signature, so middleware composes freely.
type Middleware[H any] func(next H) H

// Chain is an ordered middleware stack for one handler signature. The first
// middleware added via Use is the outermost at execution time.
type Chain[H any] struct {
	stack []Middleware[H]
}

// Use appends middleware to the chain.
func (c *Chain[H]) Use(mw ...Middleware[H]) {
	c.stack = append(c.stack, mw...)
}

// Wrap folds the chain around terminal: the last-added middleware wraps first
// so the first-added one ends up outermost.
func (c *Chain[H]) Wrap(terminal H) H {
	h := terminal
	for i := len(c.stack) - 1; i >= 0; i-- {
		h = c.stack[i](h)
	}
	return h
}
