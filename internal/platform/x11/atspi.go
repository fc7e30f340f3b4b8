package x11

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"

	"screenpilot/internal/model"
	"screenpilot/internal/platform"
)

const (
	atspiRegistry   = "org.a11y.atspi.Registry"
	atspiRootPath   = dbus.ObjectPath("/org/a11y/atspi/accessible/root")
	ifaceAccessible = "org.a11y.atspi.Accessible"
	ifaceComponent  = "org.a11y.atspi.Component"
	ifaceAction     = "org.a11y.atspi.Action"

	// coordTypeScreen asks Component.GetExtents for absolute screen
	// coordinates rather than window-relative ones.
	coordTypeScreen = uint32(0)

	// maxTreeDepth bounds the accessibility traversal. Real desktop trees
	// rarely nest deeper; a broken toolkit can expose cycles.
	maxTreeDepth = 15
)

// AT-SPI state bit numbers, per the StateType enum.
const (
	stateChecked    = 4
	stateEditable   = 7
	stateEnabled    = 8
	stateExpandable = 9
	stateExpanded   = 10
	stateFocusable  = 11
	stateFocused    = 12
	statePressed    = 20
	stateSelected   = 23
	stateSensitive  = 24
	stateShowing    = 25
	stateVisible    = 30
)

var stateNames = map[int]string{
	stateChecked:    "checked",
	stateEditable:   "editable",
	stateEnabled:    "enabled",
	stateExpandable: "expandable",
	stateExpanded:   "expanded",
	stateFocusable:  "focusable",
	stateFocused:    "focused",
	statePressed:    "pressed",
	stateSelected:   "selected",
	stateSensitive:  "sensitive",
	stateShowing:    "showing",
	stateVisible:    "visible",
}

// accessibleRef is the (service, path) pair AT-SPI uses to reference a node.
type accessibleRef struct {
	Dest string
	Path dbus.ObjectPath
}

// Reader walks the AT-SPI accessibility tree over the a11y D-Bus.
type Reader struct {
	mu   sync.Mutex
	conn *dbus.Conn
	// connErr remembers a failed connect so Available() is cheap to re-ask.
	connErr   error
	connTried bool
}

// NewReader returns an accessibility reader. The D-Bus connection is
// established lazily on first use.
func NewReader() *Reader {
	return &Reader{}
}

// Available reports whether the a11y bus can be reached.
func (r *Reader) Available() bool {
	_, err := r.connect()
	return err == nil
}

// connect resolves the a11y bus address through the session bus and dials
// it. The accessibility registry runs on its own bus, not the session bus.
func (r *Reader) connect() (*dbus.Conn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.connTried {
		return r.conn, r.connErr
	}
	r.connTried = true

	session, err := dbus.SessionBus()
	if err != nil {
		r.connErr = fmt.Errorf("session bus: %w", err)
		return nil, r.connErr
	}

	var address string
	obj := session.Object("org.a11y.Bus", "/org/a11y/bus")
	if err := obj.Call("org.a11y.Bus.GetAddress", 0).Store(&address); err != nil {
		r.connErr = fmt.Errorf("resolve a11y bus: %w", err)
		return nil, r.connErr
	}

	conn, err := dbus.Connect(address)
	if err != nil {
		r.connErr = fmt.Errorf("connect a11y bus at %s: %w", address, err)
		return nil, r.connErr
	}
	r.conn = conn
	return r.conn, nil
}

// FindElements walks the desktop tree depth-first and returns elements
// matching the query. Per-node D-Bus failures skip the node; only a failure
// to reach the bus itself is an error.
func (r *Reader) FindElements(q platform.Query, opts platform.FindOptions) ([]model.Element, error) {
	return r.walk(q, opts, false)
}

// ListInteractive returns elements with an interactive role or at least one
// exposed action.
func (r *Reader) ListInteractive(app string, visibleOnly bool) ([]model.Element, error) {
	return r.walk(platform.Query{App: app}, platform.FindOptions{VisibleOnly: visibleOnly}, true)
}

func (r *Reader) walk(q platform.Query, opts platform.FindOptions, interactiveOnly bool) ([]model.Element, error) {
	conn, err := r.connect()
	if err != nil {
		return nil, err
	}

	root := accessibleRef{Dest: atspiRegistry, Path: atspiRootPath}
	apps, err := r.children(conn, root)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	var results []model.Element
	for _, app := range apps {
		appName, err := r.name(conn, app)
		if err != nil {
			continue
		}
		if q.App != "" && !containsFold(appName, q.App) {
			continue
		}
		r.walkNode(conn, app, appName, q, opts, interactiveOnly, 0, &results)
		if opts.MaxResults > 0 && len(results) >= opts.MaxResults {
			break
		}
	}
	return results, nil
}

func (r *Reader) walkNode(conn *dbus.Conn, ref accessibleRef, appName string, q platform.Query, opts platform.FindOptions, interactiveOnly bool, depth int, results *[]model.Element) {
	if depth > maxTreeDepth {
		return
	}
	if opts.MaxResults > 0 && len(*results) >= opts.MaxResults {
		return
	}

	if el, ok := r.match(conn, ref, appName, q, opts, interactiveOnly); ok {
		*results = append(*results, el)
		if opts.MaxResults > 0 && len(*results) >= opts.MaxResults {
			return
		}
	}

	children, err := r.children(conn, ref)
	if err != nil {
		return
	}
	for _, child := range children {
		r.walkNode(conn, child, appName, q, opts, interactiveOnly, depth+1, results)
		if opts.MaxResults > 0 && len(*results) >= opts.MaxResults {
			return
		}
	}
}

// match evaluates one node against the query. Any read failure on the node
// makes it a non-match.
func (r *Reader) match(conn *dbus.Conn, ref accessibleRef, appName string, q platform.Query, opts platform.FindOptions, interactiveOnly bool) (model.Element, bool) {
	name, err := r.name(conn, ref)
	if err != nil {
		return model.Element{}, false
	}
	desc := r.description(conn, ref)
	roleName := r.roleName(conn, ref)

	if q.Name != "" && !containsFold(name, q.Name) && !containsFold(desc, q.Name) {
		return model.Element{}, false
	}
	if q.Role != "" && !containsFold(roleName, q.Role) {
		return model.Element{}, false
	}

	states := r.states(conn, ref)
	actions := r.actions(conn, ref)

	el := model.NewAXElement(name, r.extents(conn, ref), model.AXMeta{
		Role:        strings.ReplaceAll(roleName, " ", "_"),
		RoleName:    roleName,
		Description: desc,
		States:      states,
		Actions:     actions,
		App:         appName,
	})

	if opts.VisibleOnly && !el.Visible() {
		return model.Element{}, false
	}
	if opts.ClickableOnly && !el.Clickable() {
		return model.Element{}, false
	}
	if interactiveOnly && !el.Interactive() {
		return model.Element{}, false
	}
	return el, true
}

func (r *Reader) children(conn *dbus.Conn, ref accessibleRef) ([]accessibleRef, error) {
	var children []accessibleRef
	obj := conn.Object(ref.Dest, ref.Path)
	if err := obj.Call(ifaceAccessible+".GetChildren", 0).Store(&children); err != nil {
		return nil, err
	}
	return children, nil
}

func (r *Reader) name(conn *dbus.Conn, ref accessibleRef) (string, error) {
	obj := conn.Object(ref.Dest, ref.Path)
	v, err := obj.GetProperty(ifaceAccessible + ".Name")
	if err != nil {
		return "", err
	}
	s, _ := v.Value().(string)
	return s, nil
}

func (r *Reader) description(conn *dbus.Conn, ref accessibleRef) string {
	obj := conn.Object(ref.Dest, ref.Path)
	v, err := obj.GetProperty(ifaceAccessible + ".Description")
	if err != nil {
		return ""
	}
	s, _ := v.Value().(string)
	return s
}

func (r *Reader) roleName(conn *dbus.Conn, ref accessibleRef) string {
	var role string
	obj := conn.Object(ref.Dest, ref.Path)
	if err := obj.Call(ifaceAccessible+".GetRoleName", 0).Store(&role); err != nil {
		return ""
	}
	return role
}

// states decodes the two-word state bitmask into the names we care about.
func (r *Reader) states(conn *dbus.Conn, ref accessibleRef) []string {
	var raw []uint32
	obj := conn.Object(ref.Dest, ref.Path)
	if err := obj.Call(ifaceAccessible+".GetState", 0).Store(&raw); err != nil {
		return nil
	}
	return decodeStates(raw)
}

func decodeStates(raw []uint32) []string {
	var states []string
	for bit, name := range stateNames {
		word, offset := bit/32, uint(bit%32)
		if word < len(raw) && raw[word]&(1<<offset) != 0 {
			states = append(states, name)
		}
	}
	// Map iteration order is random; keep the output deterministic.
	sort.Strings(states)
	return states
}

func (r *Reader) actions(conn *dbus.Conn, ref accessibleRef) []string {
	// a(sss): name, localized description, key binding.
	var raw []struct {
		Name        string
		Description string
		KeyBinding  string
	}
	obj := conn.Object(ref.Dest, ref.Path)
	if err := obj.Call(ifaceAction+".GetActions", 0).Store(&raw); err != nil {
		return nil
	}
	actions := make([]string, 0, len(raw))
	for _, a := range raw {
		if a.Name != "" {
			actions = append(actions, a.Name)
		}
	}
	return actions
}

// extents reads absolute screen bounds. Nodes without a Component interface
// get zero bounds.
func (r *Reader) extents(conn *dbus.Conn, ref accessibleRef) [4]int {
	var ext struct {
		X, Y, Width, Height int32
	}
	obj := conn.Object(ref.Dest, ref.Path)
	if err := obj.Call(ifaceComponent+".GetExtents", 0, coordTypeScreen).Store(&ext); err != nil {
		return [4]int{}
	}
	return [4]int{int(ext.X), int(ext.Y), int(ext.Width), int(ext.Height)}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
