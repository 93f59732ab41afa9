// Package model holds the record types captured and replayed by a snap
// cycle: the per-element accessibility record, the window metadata row,
// and the action-queue row that external consumers write into.
package model

// Role is the canonical control-category name an element is mapped to.
// The domain is closed; see internal/roletable for the mapping functions.
type Role string

// Recognized roles. A Role outside this set is always Custom.
const (
	RoleButton      Role = "Button"
	RoleEdit        Role = "Edit"
	RoleText        Role = "Text"
	RoleHyperlink   Role = "Hyperlink"
	RoleMenuItem    Role = "MenuItem"
	RoleTabItem     Role = "TabItem"
	RoleListItem    Role = "ListItem"
	RoleTreeItem    Role = "TreeItem"
	RoleDataItem    Role = "DataItem"
	RoleDataGrid    Role = "DataGrid"
	RoleComboBox    Role = "ComboBox"
	RoleCheckBox    Role = "CheckBox"
	RoleRadioButton Role = "RadioButton"
	RoleSlider      Role = "Slider"
	RoleSpinner     Role = "Spinner"
	RoleDocument    Role = "Document"
	RolePane        Role = "Pane"
	RoleWindow      Role = "Window"
	RoleGroup       Role = "Group"
	RoleImage       Role = "Image"
	RoleStatusBar   Role = "StatusBar"
	RoleToolBar     Role = "ToolBar"
	RoleTitleBar    Role = "TitleBar"
	RoleSeparator   Role = "Separator"
	RoleSplitButton Role = "SplitButton"
	RoleCustom      Role = "Custom"
)

// Rect is an integer bounding rectangle in screen coordinates.
type Rect struct {
	X, Y, W, H int
}

// Empty reports whether the rectangle has zero area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Center returns the rectangle's center point.
func (r Rect) Center() (x, y int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Element is one node captured during a tree walk.
type Element struct {
	ID            int
	ParentID      int
	Depth         int
	Role          Role
	Name          string
	Value         string
	AutomationID  string
	Enabled       bool
	Offscreen     bool
	Rect          Rect
}

// WindowMeta is the side key/value metadata recorded once per dump.
type WindowMeta struct {
	Window    string
	HWND      string
	TimestampMS int64
	Rect      Rect
}

// ActionKind enumerates the action-queue row types.
type ActionKind string

const (
	ActionText   ActionKind = "text"
	ActionType   ActionKind = "type"
	ActionKey    ActionKind = "key"
	ActionClick  ActionKind = "click"
	ActionScroll ActionKind = "scroll"
)

// Action is one row of the inject table.
type Action struct {
	ID     int64
	Kind   ActionKind
	Text   string
	Target string
	Done   bool
}
