package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	cases := []struct {
		name    string
		res     Resource
		act     Action
		role    Role
		allowed bool
		shape   Shape
	}{
		{"anonymous selalu ditolak", ResourceTaskData, ActionList, RoleAnonymous, false, ShapeNone},
		{"regular boleh list task data", ResourceTaskData, ActionList, RoleRegular, true, ShapeNone},
		{"regular boleh manage lists", ResourceTaskData, ActionManageLists, RoleRegular, true, ShapeNone},
		{"regular tidak boleh list account", ResourceAccount, ActionList, RoleRegular, false, ShapeNone},
		{"regular tidak boleh create account", ResourceAccount, ActionCreate, RoleRegular, false, ShapeNone},
		{"regular tidak boleh activate", ResourceAccount, ActionActivate, RoleRegular, false, ShapeNone},
		{"regular tidak boleh deactivate", ResourceAccount, ActionDeactivate, RoleRegular, false, ShapeNone},
		{"regular tidak boleh list profile", ResourceProfile, ActionList, RoleRegular, false, ShapeNone},
		{"regular retrieve account bentuk simple", ResourceAccount, ActionRetrieve, RoleRegular, true, ShapeSimple},
		{"regular me bentuk simple", ResourceAccount, ActionMe, RoleRegular, true, ShapeSimple},
		{"admin list account bentuk elevated", ResourceAccount, ActionList, RoleAdmin, true, ShapeElevated},
		{"admin create account", ResourceAccount, ActionCreate, RoleAdmin, true, ShapeElevated},
		{"admin activate", ResourceAccount, ActionActivate, RoleAdmin, true, ShapeElevated},
		{"admin list profile", ResourceProfile, ActionList, RoleAdmin, true, ShapeNone},
		{"admin task data", ResourceTaskData, ActionDelete, RoleAdmin, true, ShapeNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := Resolve(tc.res, tc.act, tc.role)
			assert.Equal(t, tc.allowed, d.Allowed)
			assert.Equal(t, tc.shape, d.Shape)
		})
	}
}

func TestRoleOf(t *testing.T) {
	assert.Equal(t, RoleRegular, RoleOf(false, false))
	assert.Equal(t, RoleAdmin, RoleOf(true, false))
	assert.Equal(t, RoleAdmin, RoleOf(false, true))
	assert.Equal(t, RoleAdmin, RoleOf(true, true))
}
