// Package toolcall assembles streamed tool-call fragments for a single run.
package toolcall

import (
	"strings"

	"github.com/casualjim/cfagui/provider"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Observation is the result of feeding one fragment to the accumulator.
type Observation struct {
	// First is true when the fragment is the first one seen for its id.
	First bool
	ID    string
	Name  string
}

type entry struct {
	name   string
	args   strings.Builder
	closed bool
}

// Accumulator tracks the tool calls of one run, keyed by call id, in the
// order their ids were first seen. It is not safe for concurrent use and
// must not outlive the run that created it.
type Accumulator struct {
	calls *orderedmap.OrderedMap[string, *entry]
}

// New returns an empty accumulator.
func New() *Accumulator {
	return &Accumulator{calls: orderedmap.New[string, *entry]()}
}

// Observe records a fragment. A fragment for an unseen id is always a first
// fragment, even without a name: the call then stays anonymous. The name is
// set once; names on later fragments are ignored. Argument text is appended
// verbatim and never validated.
func (a *Accumulator) Observe(delta provider.ToolCallDelta) Observation {
	e, ok := a.calls.Get(delta.ID)
	if !ok {
		e = &entry{name: delta.Name}
		a.calls.Set(delta.ID, e)
	}
	e.args.WriteString(delta.Arguments)

	return Observation{
		First: !ok,
		ID:    delta.ID,
		Name:  e.name,
	}
}

// Arguments returns the argument text assembled so far for id.
func (a *Accumulator) Arguments(id string) string {
	if e, ok := a.calls.Get(id); ok {
		return e.args.String()
	}
	return ""
}

// Name returns the tool name recorded for id.
func (a *Accumulator) Name(id string) string {
	if e, ok := a.calls.Get(id); ok {
		return e.name
	}
	return ""
}

// Close marks id complete. It reports true only the first time a known id is
// closed.
func (a *Accumulator) Close(id string) bool {
	e, ok := a.calls.Get(id)
	if !ok || e.closed {
		return false
	}
	e.closed = true
	return true
}

// Open returns the ids that were started but not closed, in first-seen order.
func (a *Accumulator) Open() []string {
	var ids []string
	for pair := a.calls.Oldest(); pair != nil; pair = pair.Next() {
		if !pair.Value.closed {
			ids = append(ids, pair.Key)
		}
	}
	return ids
}

// Len returns the number of distinct call ids seen.
func (a *Accumulator) Len() int {
	return a.calls.Len()
}
