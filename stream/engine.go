package stream

import (
	"sync"

	"github.com/gogpu/canvas"
)

// Engine is the stream engine (component C): a single-mutator retained
// instruction log that applies the rewrite rules of §4.1 on every write
// and fans the resulting delta out to any number of subscribers. Engine
// implements canvas.DrawSink, so a canvas.Recorder can target it
// directly (§4.3).
type Engine struct {
	mu sync.Mutex

	log    []Entry
	target canvas.Target

	subs   []*Subscriber
	closed bool
}

// New creates a stream engine whose log begins with the canvas lifecycle
// default: a single layer, ResetFrame then ClearCanvas(transparent)
// (§3 "Lifecycle").
func New() *Engine {
	e := &Engine{target: canvas.LayerTarget(0)}
	e.log = []Entry{
		{Target: canvas.FrameTarget(), Draw: canvas.ResetFrame{}},
		{Target: canvas.FrameTarget(), Draw: canvas.ClearCanvas{Color: canvas.RGBA{}}},
	}
	return e
}

// Write appends a batch of draw instructions, applying the §4.1 rewrite
// rules to each in order, then broadcasts the resulting delta to every
// subscriber as a single atomic unit (§4.1 "write").
func (e *Engine) Write(draws []canvas.Draw) {
	if len(draws) == 0 {
		return
	}
	e.mu.Lock()
	before := len(e.log)
	clearedCanvas := false
	for _, d := range draws {
		if d.Kind() == canvas.DrawClearCanvas {
			clearedCanvas = true
		}
		e.apply(d)
	}
	// A ClearCanvas anywhere in the batch truncates everything that
	// preceded it within this same write, so the delta subscribers see
	// is whatever remains after all rewrites, not a raw append log.
	var delta []Entry
	if clearedCanvas {
		delta = append([]Entry(nil), e.log...)
	} else if before <= len(e.log) {
		delta = append([]Entry(nil), e.log[before:]...)
	} else {
		delta = append([]Entry(nil), e.log...)
	}
	subs := append([]*Subscriber(nil), e.subs...)
	e.mu.Unlock()

	live := subs[:0]
	for _, s := range subs {
		if s.isDropped() {
			continue
		}
		s.deliver(delta, clearedCanvas)
		live = append(live, s)
	}
	e.mu.Lock()
	e.subs = append([]*Subscriber(nil), live...)
	e.mu.Unlock()
}

// Draw accepts a closure that fills a canvas.Recorder, then submits the
// recorder's buffered instructions as a single Write (§4.1 "draw").
func (e *Engine) Draw(fn func(*canvas.Recorder)) {
	r := canvas.NewRecorder(e)
	fn(r)
	r.Flush()
}

// Subscribe registers a new subscriber. It is atomic with respect to
// Write: the returned Subscriber's first Next() call yields exactly the
// log as it stands right now, and every batch written after this point
// is delivered with no gaps or duplicates (§4.1 "subscribe").
func (e *Engine) Subscribe() *Subscriber {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := newSubscriber()
	s.queue = append(s.queue, e.log...)
	if e.closed {
		s.close()
	}
	e.subs = append(e.subs, s)
	return s
}

// Snapshot returns a copy of the current log as a flat sequence
// (§4.1 "snapshot").
func (e *Engine) Snapshot() []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Entry, len(e.log))
	copy(out, e.log)
	return out
}

// Close wakes every subscriber and marks the engine as shut down; their
// readers terminate after draining whatever remains queued (§5
// "Cancellation and teardown").
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	subs := append([]*Subscriber(nil), e.subs...)
	e.mu.Unlock()
	for _, s := range subs {
		s.close()
	}
}

// apply runs the §4.1 rewrite rules for a single instruction. Caller
// holds e.mu.
func (e *Engine) apply(d canvas.Draw) {
	switch v := d.(type) {
	case canvas.ClearCanvas:
		e.ruleClearCanvas(v)
	case canvas.RestoreOp:
		e.ruleRestore(v)
	case canvas.FreeStoredBufferOp:
		e.ruleFreeStoredBuffer(v)
	case canvas.LayerOp:
		e.target = canvas.LayerTarget(v.Id)
		e.append(d)
	case canvas.SpriteOp:
		e.target = canvas.SpriteTarget(v.Id)
		e.append(d)
	case canvas.ClearLayerOp:
		e.ruleClearTarget()
	case canvas.ClearSpriteOp:
		e.ruleClearTarget()
	case canvas.ClearAllLayersOp:
		e.ruleClearAllLayers()
	case canvas.ShowFrame:
		e.append(d)
		e.runFrameBalance(false)
	case canvas.ResetFrame:
		e.append(d)
		e.runFrameBalance(true)
	default:
		e.append(d)
	}
}

// append adds d to the log tagged with the current target, except for
// frame-control instructions which are always tagged Frame regardless
// of the selected target (§4.1 rule 9).
func (e *Engine) append(d canvas.Draw) {
	tgt := e.target
	if isFrameControl(d) {
		tgt = canvas.FrameTarget()
	}
	e.log = append(e.log, Entry{Target: tgt, Draw: d})
}

// ruleClearCanvas implements §4.1 rule 1.
func (e *Engine) ruleClearCanvas(v canvas.ClearCanvas) {
	kept := e.log[:0:0]
	for _, ent := range e.log {
		if ent.Target.Kind == canvas.TargetFrame {
			kept = append(kept, ent)
		}
	}
	e.log = kept
	e.target = canvas.LayerTarget(0)
	e.log = append(e.log, Entry{Target: canvas.FrameTarget(), Draw: v})
}

// ruleFreeStoredBuffer implements §4.1 rule 3: pop a trailing Store
// instead of appending, when the immediately preceding log entry is a
// Store.
func (e *Engine) ruleFreeStoredBuffer(v canvas.FreeStoredBufferOp) {
	if n := len(e.log); n > 0 {
		if _, ok := e.log[n-1].Draw.(canvas.StoreOp); ok {
			e.log = e.log[:n-1]
			return
		}
	}
	e.append(v)
}

// ruleRestore implements §4.1 rule 2. It appends the restore, then
// attempts to rewind the tail back to the matching Store.
//
// Open question (SPEC_FULL §14(1)): the push/pop depth tracked while
// scanning backward counts +1 per PushState and -1 per PopState, the
// same direction the source uses. This implementation does not attempt
// to reproduce the source's reported double-counting of a trailing
// unmatched PushState; it simply requires the counted depth to be
// exactly zero at the candidate Store for the rewind to fire, which is
// the conservative reading of an otherwise undocumented bug.
func (e *Engine) ruleRestore(v canvas.RestoreOp) {
	e.append(v)

	// Scan the log excluding the Restore we just appended.
	end := len(e.log) - 1
	depth := 0
	for i := end - 1; i >= 0; i-- {
		d := e.log[i].Draw
		switch d.(type) {
		case canvas.ClipOp, canvas.UnclipOp, canvas.StartFrame, canvas.ShowFrame:
			return // tail contains a disqualifying instruction; no rewind
		case canvas.PushStateOp:
			depth++
		case canvas.PopStateOp:
			depth--
		case canvas.StoreOp:
			if depth == 0 {
				// Rewind: keep everything up to and including this Store.
				e.log = e.log[:i+1]
				return
			}
		}
	}
}

// ruleClearTarget implements §4.1 rule 6 for both ClearLayer and
// ClearSprite: it removes every entry tagged with the current target
// except the canvas-global carve-out, appends a reselection of the
// current target, and runs the resource sweep.
func (e *Engine) ruleClearTarget() {
	tgt := e.target
	kept := e.log[:0:0]
	for _, ent := range e.log {
		if ent.Target.Equal(tgt) && !isFrameGlobalOnClear(ent.Draw) {
			continue
		}
		kept = append(kept, ent)
	}
	e.log = kept
	e.log = append(e.log, Entry{Target: tgt, Draw: reselectionOf(tgt)})
	e.log = sweepResources(e.log)
}

// ruleClearAllLayers implements §4.1 rule 7.
func (e *Engine) ruleClearAllLayers() {
	kept := e.log[:0:0]
	for _, ent := range e.log {
		if ent.Target.Kind == canvas.TargetLayer {
			continue
		}
		kept = append(kept, ent)
	}
	e.log = kept
	e.log = sweepResources(e.log)
}

// reselectionOf returns the Draw instruction that re-selects tgt as the
// current drawing target, used by ruleClearTarget's "append a
// reselection of the current target" step.
func reselectionOf(tgt canvas.Target) canvas.Draw {
	if tgt.Kind == canvas.TargetSprite {
		return canvas.SpriteOp{Id: tgt.Sprite}
	}
	return canvas.LayerOp{Id: tgt.Layer}
}

// runFrameBalance implements §4.1 rule 8. reset indicates the just
// appended instruction was ResetFrame, which zeroes the frame-depth
// counter and removes every earlier frame-control instruction outright
// rather than only matched pairs.
func (e *Engine) runFrameBalance(reset bool) {
	if reset {
		kept := e.log[:0:0]
		last := len(e.log) - 1
		for i, ent := range e.log {
			if i == last {
				kept = append(kept, ent)
				continue
			}
			switch ent.Draw.(type) {
			case canvas.StartFrame, canvas.ShowFrame:
				continue
			}
			kept = append(kept, ent)
		}
		e.log = kept
		return
	}

	// Remove every StartFrame/ShowFrame pair that is fully nested and
	// balanced, matching parentheses front to back; whatever remains on
	// the stack is the genuinely unmatched tail (§4.1 rule 8, §13
	// "already balanced" short-circuit simplified to full reduction).
	var stack []int
	remove := make(map[int]bool)
	for i, ent := range e.log {
		switch ent.Draw.(type) {
		case canvas.StartFrame:
			stack = append(stack, i)
		case canvas.ShowFrame:
			if n := len(stack); n > 0 {
				remove[stack[n-1]] = true
				remove[i] = true
				stack = stack[:n-1]
			}
		}
	}
	if len(remove) == 0 {
		return
	}
	kept := e.log[:0:0]
	for i, ent := range e.log {
		if remove[i] {
			continue
		}
		kept = append(kept, ent)
	}
	e.log = kept
}
