package router

// NavigateOptions configures a single navigation.
type NavigateOptions struct {
	// Replace overwrites the current history entry instead of pushing a new
	// one. Used for the initial navigation and for back/forward resyncs.
	Replace bool

	// State is stored with the history entry.
	State any
}

// NavigateOption is a functional option for Navigate.
type NavigateOption func(*NavigateOptions)

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() NavigateOption {
	return func(o *NavigateOptions) {
		o.Replace = true
	}
}

// WithState attaches state to the history entry.
func WithState(state any) NavigateOption {
	return func(o *NavigateOptions) {
		o.State = state
	}
}

// Outcome describes how a navigation ended.
type Outcome uint8

const (
	// Cancelled means a before-hook vetoed (or faulted) and nothing changed.
	Cancelled Outcome = iota
	// Matched means a route resolved and its handler ran.
	Matched
	// NotFound means no route resolved and the not-found handler ran.
	NotFound
	// Unhandled means no route resolved and no not-found handler is set.
	Unhandled
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case Cancelled:
		return "cancelled"
	case Matched:
		return "matched"
	case NotFound:
		return "not_found"
	case Unhandled:
		return "unhandled"
	default:
		return "unknown"
	}
}

// Result reports what a navigation did.
type Result struct {
	// Path is the normalized target path.
	Path    string
	Outcome Outcome
	// Pattern is the route that resolved, empty unless Outcome is Matched.
	Pattern string
	Params  Params
}
