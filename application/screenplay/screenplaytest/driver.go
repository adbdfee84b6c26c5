package screenplaytest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"ui_workflows/domain/entities"
	"ui_workflows/domain/interfaces"
)

// Driver is an in-memory BrowserDriver over a Node tree. Every effect is
// appended to Log as "<op> <node>" so tests can assert on what happened.
type Driver struct {
	mu       sync.Mutex
	document *Node
	frames   []*Node
	faults   map[string][]error
	log      []string

	Visited []string
	Closed  bool
}

var _ interfaces.BrowserDriver = (*Driver)(nil)

// NewDriver creates a driver showing document
func NewDriver(document *Node) *Driver {
	return &Driver{document: document, faults: map[string][]error{}}
}

// Mutate changes the DOM while holding the driver lock, safe to call from
// another goroutine while an activity is polling.
func (d *Driver) Mutate(change func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	change()
}

// FailNext makes the next calls to op fail with errs, one error per call
func (d *Driver) FailNext(op string, errs ...error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.faults[op] = append(d.faults[op], errs...)
}

// Log returns a copy of the effects performed so far
func (d *Driver) Log() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.log...)
}

// FrameDepth returns how many frames are currently entered
func (d *Driver) FrameDepth() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.frames)
}

func (d *Driver) enter(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if errs := d.faults[op]; len(errs) > 0 {
		d.faults[op] = errs[1:]
		return errs[0]
	}
	return nil
}

func (d *Driver) record(op string, n *Node) {
	d.log = append(d.log, op+" "+n.String())
}

func (d *Driver) root() *Node {
	if len(d.frames) > 0 {
		return d.frames[len(d.frames)-1]
	}
	return d.document
}

func node(el interfaces.Element) (*Node, error) {
	n, ok := el.(*Node)
	if !ok {
		return nil, fmt.Errorf("foreign element %v", el)
	}
	return n, nil
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.enter(ctx, "navigate"); err != nil {
		return err
	}
	d.Visited = append(d.Visited, url)
	return nil
}

func (d *Driver) Find(ctx context.Context, scope interfaces.Element, query entities.Query) ([]interfaces.Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.enter(ctx, "find"); err != nil {
		return nil, err
	}

	root := d.root()
	if scope != nil {
		n, err := node(scope)
		if err != nil {
			return nil, err
		}
		root = n
	}

	if query.Strategy == entities.StrategyXPath {
		if next := root.relative(query.Selector); next != nil {
			return []interfaces.Element{next}, nil
		}
		if query.Selector != ".." && query.Selector != "following-sibling::*[1]" {
			return nil, fmt.Errorf("unsupported xpath %q", query.Selector)
		}
		return nil, nil
	}

	var found []interfaces.Element
	root.descendants(func(n *Node) {
		if matches(n, query) {
			found = append(found, n)
		}
	})
	return found, nil
}

func matches(n *Node, q entities.Query) bool {
	switch q.Strategy {
	case entities.StrategyRole:
		return n.Role == q.Selector && (q.Text == "" || n.Label == q.Text)
	case entities.StrategyCSSContainingText:
		return n.matchesSelector(q.Selector) && strings.Contains(n.TextContent(), q.Text)
	default:
		return n.matchesSelector(q.Selector)
	}
}

func (d *Driver) Click(ctx context.Context, el interfaces.Element) error {
	d.mu.Lock()
	n, err := node(el)
	if err == nil {
		err = d.enter(ctx, "click")
	}
	if err != nil {
		d.mu.Unlock()
		return err
	}
	d.record("click", n)
	hook := n.OnClick
	d.mu.Unlock()

	if hook != nil {
		d.Mutate(func() { hook(n) })
	}
	return nil
}

func (d *Driver) SetValue(ctx context.Context, el interfaces.Element, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := node(el)
	if err != nil {
		return err
	}
	if err := d.enter(ctx, "set_value"); err != nil {
		return err
	}
	n.Value = text
	d.record("fill "+text+" into", n)
	return nil
}

func (d *Driver) SetFiles(ctx context.Context, el interfaces.Element, paths []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := node(el)
	if err != nil {
		return err
	}
	if err := d.enter(ctx, "set_files"); err != nil {
		return err
	}
	n.Files = append([]string(nil), paths...)
	for _, p := range paths {
		d.record("upload "+p+" to", n)
	}
	return nil
}

func (d *Driver) Press(ctx context.Context, el interfaces.Element, keys ...string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := node(el)
	if err != nil {
		return err
	}
	if err := d.enter(ctx, "press"); err != nil {
		return err
	}
	for _, k := range keys {
		n.Pressed = append(n.Pressed, k)
		d.record("press "+k+" in", n)
	}
	return nil
}

func (d *Driver) SelectOption(ctx context.Context, el interfaces.Element, label string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := node(el)
	if err != nil {
		return err
	}
	if err := d.enter(ctx, "select"); err != nil {
		return err
	}
	n.Selected = label
	d.record("select "+label+" in", n)
	return nil
}

func (d *Driver) ReadText(ctx context.Context, el interfaces.Element) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := node(el)
	if err != nil {
		return "", err
	}
	if err := d.enter(ctx, "read_text"); err != nil {
		return "", err
	}
	return n.TextContent(), nil
}

func (d *Driver) ReadHTML(ctx context.Context, el interfaces.Element) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := node(el)
	if err != nil {
		return "", err
	}
	if err := d.enter(ctx, "read_html"); err != nil {
		return "", err
	}
	return n.HTML, nil
}

func (d *Driver) ReadAttribute(ctx context.Context, el interfaces.Element, name string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := node(el)
	if err != nil {
		return "", err
	}
	if err := d.enter(ctx, "read_attribute"); err != nil {
		return "", err
	}
	return n.Attrs[name], nil
}

func (d *Driver) ReadValue(ctx context.Context, el interfaces.Element) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := node(el)
	if err != nil {
		return "", err
	}
	if err := d.enter(ctx, "read_value"); err != nil {
		return "", err
	}
	return n.Value, nil
}

func (d *Driver) IsVisible(ctx context.Context, el interfaces.Element) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := node(el)
	if err != nil {
		return false, err
	}
	if err := d.enter(ctx, "is_visible"); err != nil {
		return false, err
	}
	return n.visible(), nil
}

func (d *Driver) SwitchFrame(ctx context.Context, frame interfaces.Element) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, err := node(frame)
	if err != nil {
		return err
	}
	if err := d.enter(ctx, "switch_frame"); err != nil {
		return err
	}
	if n.Document == nil {
		return fmt.Errorf("%s is not a frame", n)
	}
	d.frames = append(d.frames, n.Document)
	d.record("enter", n)
	return nil
}

func (d *Driver) SwitchToParentFrame(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.enter(ctx, "switch_parent"); err != nil {
		return err
	}
	if len(d.frames) == 0 {
		return fmt.Errorf("not inside a frame")
	}
	d.frames = d.frames[:len(d.frames)-1]
	d.log = append(d.log, "leave frame")
	return nil
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Closed = true
	return nil
}
