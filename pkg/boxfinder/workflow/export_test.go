package workflow

// withRenderHook runs fn at the start of every render
func withRenderHook(fn func()) func(*Options) {
	return func(o *Options) { o.beforeRender = fn }
}
