package input

// ActionSource indicates the origin of an action.
type ActionSource uint8

const (
	// SourceKeyboard indicates the action originated from keyboard input.
	SourceKeyboard ActionSource = iota
	// SourceMouse indicates the action originated from mouse input.
	SourceMouse
	// SourceScript indicates the action originated from a script.
	SourceScript
	// SourceJournal indicates the action is being replayed from a journal.
	SourceJournal
	// SourceAPI indicates the action originated from an API call.
	SourceAPI
)

// String returns a string representation of the action source.
func (s ActionSource) String() string {
	switch s {
	case SourceKeyboard:
		return "keyboard"
	case SourceMouse:
		return "mouse"
	case SourceScript:
		return "script"
	case SourceJournal:
		return "journal"
	case SourceAPI:
		return "api"
	default:
		return "unknown"
	}
}

// Point is a viewport coordinate.
type Point struct {
	X, Y float64
}

// ActionArgs holds arguments for an action.
type ActionArgs struct {
	// Text for insert operations.
	Text string

	// Point for pointer commands such as cursor.moveToPoint.
	Point *Point

	// Extra holds additional key-value pairs for extensibility.
	Extra map[string]any
}

// Get retrieves a value from Extra.
func (a ActionArgs) Get(key string) (any, bool) {
	if a.Extra == nil {
		return nil, false
	}
	v, ok := a.Extra[key]
	return v, ok
}

// GetString retrieves a string value from Extra.
func (a ActionArgs) GetString(key string) string {
	if v, ok := a.Get(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetInt retrieves an int value from Extra.
func (a ActionArgs) GetInt(key string) int {
	if v, ok := a.Get(key); ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return 0
}

// GetFloat retrieves a float value from Extra.
func (a ActionArgs) GetFloat(key string) float64 {
	if v, ok := a.Get(key); ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return 0
}

// Action represents a command to be executed by the dispatcher.
type Action struct {
	// Name is the command identifier (e.g., "cursor.moveLineBelow").
	Name string

	// Args contains command-specific arguments.
	Args ActionArgs

	// Source indicates where this action originated.
	Source ActionSource

	// Count is the repeat count. Zero and one both mean once.
	Count int
}

// NewAction creates an action with no arguments.
func NewAction(name string) Action {
	return Action{Name: name}
}

// WithCount returns a copy of the action with the specified count.
func (a Action) WithCount(count int) Action {
	a.Count = count
	return a
}

// WithText returns a copy of the action with the specified text argument.
func (a Action) WithText(text string) Action {
	a.Args.Text = text
	return a
}

// WithPoint returns a copy of the action targeting a viewport point.
func (a Action) WithPoint(x, y float64) Action {
	a.Args.Point = &Point{X: x, Y: y}
	return a
}

// WithSource returns a copy of the action with the specified source.
func (a Action) WithSource(src ActionSource) Action {
	a.Source = src
	return a
}
