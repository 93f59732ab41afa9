// Package roletable implements the two closed-domain total functions the
// walker and projection generator depend on: the platform's numeric
// control-type identifier to a canonical model.Role, and a model.Role to the
// tool classification the operable-index projection prints.
//
// Both are modeled as pure functions over a fixed mapping table rather than
// an inheritance hierarchy.
package roletable

import "github.com/directshell/core/internal/model"

// Windows UI Automation control-type identifiers (UIA_*ControlTypeId), the
// numeric domain the walker receives from the platform layer. Values match
// the constants exposed by the UI Automation COM API.
const (
	ControlTypeButton      = 50000
	ControlTypeCalendar    = 50001
	ControlTypeCheckBox    = 50002
	ControlTypeComboBox    = 50003
	ControlTypeEdit        = 50004
	ControlTypeHyperlink   = 50005
	ControlTypeImage       = 50006
	ControlTypeListItem    = 50007
	ControlTypeList        = 50008
	ControlTypeMenu        = 50009
	ControlTypeMenuBar     = 50010
	ControlTypeMenuItem    = 50011
	ControlTypeProgressBar = 50012
	ControlTypeRadioButton = 50013
	ControlTypeScrollBar   = 50014
	ControlTypeSlider      = 50015
	ControlTypeSpinner     = 50016
	ControlTypeStatusBar   = 50017
	ControlTypeTab         = 50018
	ControlTypeTabItem     = 50019
	ControlTypeText        = 50020
	ControlTypeToolBar     = 50021
	ControlTypeToolTip     = 50022
	ControlTypeTree        = 50023
	ControlTypeTreeItem    = 50024
	ControlTypeCustom      = 50025
	ControlTypeGroup       = 50026
	ControlTypeThumb       = 50027
	ControlTypeDataGrid    = 50028
	ControlTypeDataItem    = 50029
	ControlTypeDocument    = 50030
	ControlTypeSplitButton = 50031
	ControlTypeWindow      = 50032
	ControlTypePane        = 50033
	ControlTypeHeader      = 50034
	ControlTypeHeaderItem  = 50035
	ControlTypeTable       = 50036
	ControlTypeTitleBar    = 50037
	ControlTypeSeparator   = 50038
)

// controlTypeToRole maps every documented UIA control-type identifier to its
// canonical model.Role. Identifiers with no direct model.Role (Calendar,
// List, Menu, MenuBar, ProgressBar, ScrollBar, Tab, ToolTip, Tree, Thumb,
// Header, HeaderItem, Table) fold to RoleCustom, keeping the function total
// without inventing roles the projection layer never filters on.
var controlTypeToRole = map[int]model.Role{
	ControlTypeButton:      model.RoleButton,
	ControlTypeCheckBox:    model.RoleCheckBox,
	ControlTypeComboBox:    model.RoleComboBox,
	ControlTypeEdit:        model.RoleEdit,
	ControlTypeHyperlink:   model.RoleHyperlink,
	ControlTypeImage:       model.RoleImage,
	ControlTypeListItem:    model.RoleListItem,
	ControlTypeMenuItem:    model.RoleMenuItem,
	ControlTypeRadioButton: model.RoleRadioButton,
	ControlTypeSlider:      model.RoleSlider,
	ControlTypeSpinner:     model.RoleSpinner,
	ControlTypeStatusBar:   model.RoleStatusBar,
	ControlTypeTabItem:     model.RoleTabItem,
	ControlTypeText:        model.RoleText,
	ControlTypeToolBar:     model.RoleToolBar,
	ControlTypeTreeItem:    model.RoleTreeItem,
	ControlTypeGroup:       model.RoleGroup,
	ControlTypeDataGrid:    model.RoleDataGrid,
	ControlTypeDataItem:    model.RoleDataItem,
	ControlTypeDocument:    model.RoleDocument,
	ControlTypeSplitButton: model.RoleSplitButton,
	ControlTypeWindow:      model.RoleWindow,
	ControlTypePane:        model.RolePane,
	ControlTypeTitleBar:    model.RoleTitleBar,
	ControlTypeSeparator:   model.RoleSeparator,
}

// RoleFromControlType is a total function over the documented UIA
// control-type identifier range: any identifier not in the table yields
// model.RoleCustom rather than an error.
func RoleFromControlType(controlType int) model.Role {
	if role, ok := controlTypeToRole[controlType]; ok {
		return role
	}
	return model.RoleCustom
}

// Tool is the injection strategy the operable-index projection prints next
// to an element's name.
type Tool string

const (
	ToolKeyboard Tool = "keyboard"
	ToolClick    Tool = "click"
	ToolToggle   Tool = "toggle"
	ToolSelect   Tool = "select"
	ToolSlide    Tool = "slide"
	ToolSpin     Tool = "spin"
	ToolNone     Tool = ""
)

var roleToTool = map[model.Role]Tool{
	model.RoleEdit:        ToolKeyboard,
	model.RoleDocument:    ToolKeyboard,
	model.RoleButton:      ToolClick,
	model.RoleHyperlink:   ToolClick,
	model.RoleMenuItem:    ToolClick,
	model.RoleTabItem:     ToolClick,
	model.RoleListItem:    ToolClick,
	model.RoleTreeItem:    ToolClick,
	model.RoleDataItem:    ToolClick,
	model.RoleSplitButton: ToolClick,
	model.RoleCheckBox:    ToolToggle,
	model.RoleRadioButton: ToolToggle,
	model.RoleComboBox:    ToolSelect,
	model.RoleSlider:      ToolSlide,
	model.RoleSpinner:     ToolSpin,
}

// ToolForRole is total over the role domain: a role
// with no operable tool (Text, Group, Window, Pane, ...) returns ToolNone,
// which the operable-index filter already excludes upstream.
func ToolForRole(role model.Role) Tool {
	if tool, ok := roleToTool[role]; ok {
		return tool
	}
	return ToolNone
}

// IsOperableRole reports whether role has a non-empty tool classification.
func IsOperableRole(role model.Role) bool {
	return ToolForRole(role) != ToolNone
}

// InputTargetRoles are the roles the screen-reader view's "Input Targets"
// section filters on.
var InputTargetRoles = map[model.Role]bool{
	model.RoleEdit:     true,
	model.RoleDocument: true,
	model.RoleComboBox: true,
}

// ContentRoles are the roles the screen-reader view's "Content" section
// filters on.
var ContentRoles = map[model.Role]bool{
	model.RoleText:     true,
	model.RoleDocument: true,
	model.RoleHyperlink: true,
	model.RoleImage:    true,
	model.RoleListItem: true,
	model.RoleTreeItem: true,
	model.RoleDataItem: true,
	model.RoleGroup:    true,
}
