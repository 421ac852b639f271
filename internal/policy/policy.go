package policy

// Keputusan permission dan pemilihan bentuk serialisasi sebagai fungsi
// murni dari (resource, action, role). Tabel ini menggantikan dispatch
// kondisional yang tersebar di handler sehingga bisa diuji tanpa
// transport layer.

type Role int

const (
	RoleAnonymous Role = iota
	RoleRegular
	RoleAdmin // staff atau superuser
)

type Resource int

const (
	ResourceAccount Resource = iota
	ResourceProfile
	ResourceTaskData // group list, task list, task, step, label
)

type Action int

const (
	ActionList Action = iota
	ActionCreate
	ActionRetrieve
	ActionUpdate
	ActionDelete
	ActionMe
	ActionActivate
	ActionDeactivate
	ActionManageLists
)

// Shape memilih field set pada serialisasi account.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeSimple
	ShapeElevated
)

type Decision struct {
	Allowed bool
	Shape   Shape
}

type key struct {
	res Resource
	act Action
}

var adminOnly = map[key]bool{
	{ResourceAccount, ActionList}:       true,
	{ResourceAccount, ActionCreate}:     true,
	{ResourceAccount, ActionActivate}:   true,
	{ResourceAccount, ActionDeactivate}: true,
	{ResourceProfile, ActionList}:       true,
}

// Resolve mengembalikan keputusan untuk satu kombinasi. Caller anonim
// selalu ditolak; selain itu hanya action admin-only yang dibatasi.
// Pembatasan "own resources only" ditegakkan oleh query resolver,
// bukan oleh tabel ini.
func Resolve(res Resource, act Action, role Role) Decision {
	if role == RoleAnonymous {
		return Decision{Allowed: false, Shape: ShapeNone}
	}

	if adminOnly[key{res, act}] && role != RoleAdmin {
		return Decision{Allowed: false, Shape: ShapeNone}
	}

	return Decision{Allowed: true, Shape: shapeFor(res, role)}
}

func shapeFor(res Resource, role Role) Shape {
	if res != ResourceAccount {
		return ShapeNone
	}
	if role == RoleAdmin {
		return ShapeElevated
	}
	return ShapeSimple
}

// RoleOf menurunkan Role dari flag privilege.
func RoleOf(isStaff, isSuperuser bool) Role {
	if isStaff || isSuperuser {
		return RoleAdmin
	}
	return RoleRegular
}
