package roletable

import (
	"testing"

	"github.com/directshell/core/internal/model"
	"github.com/stretchr/testify/require"
)

func TestRoleFromControlType_Total(t *testing.T) {
	require.Equal(t, model.RoleButton, RoleFromControlType(ControlTypeButton))
	require.Equal(t, model.RoleEdit, RoleFromControlType(ControlTypeEdit))

	// Unknown / reserved identifier outside the documented range still
	// resolves rather than erroring.
	require.Equal(t, model.RoleCustom, RoleFromControlType(999999))
}

func TestToolForRole_Total(t *testing.T) {
	cases := map[model.Role]Tool{
		model.RoleEdit:        ToolKeyboard,
		model.RoleDocument:    ToolKeyboard,
		model.RoleButton:      ToolClick,
		model.RoleHyperlink:   ToolClick,
		model.RoleCheckBox:    ToolToggle,
		model.RoleRadioButton: ToolToggle,
		model.RoleComboBox:    ToolSelect,
		model.RoleSlider:      ToolSlide,
		model.RoleSpinner:     ToolSpin,
		model.RoleText:        ToolNone,
		model.RoleGroup:       ToolNone,
		model.RoleWindow:      ToolNone,
	}
	for role, want := range cases {
		require.Equal(t, want, ToolForRole(role), "role %s", role)
	}
}

func TestIsOperableRole(t *testing.T) {
	require.True(t, IsOperableRole(model.RoleButton))
	require.False(t, IsOperableRole(model.RoleText))
}
