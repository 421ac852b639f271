package identity

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Scope membawa identitas caller dan ancestor id dari path untuk satu
// request. Semua resolver dan mutator menerima Scope secara eksplisit;
// tidak ada lookup global "current user".
type Scope struct {
	AccountID   int
	ProfileID   uuid.UUID
	IsStaff     bool
	IsSuperuser bool

	GroupID *int
	ListID  *int
	TaskID  *int
}

// IsAdmin: staff atau superuser melewati filter ownership.
func (s Scope) IsAdmin() bool {
	return s.IsStaff || s.IsSuperuser
}

// FromCtx membangun Scope dari locals yang di-set middleware auth dan
// parameter path bila ada.
func FromCtx(c *fiber.Ctx) Scope {
	s := Scope{
		AccountID:   c.Locals("accountID").(int),
		ProfileID:   c.Locals("profileID").(uuid.UUID),
		IsStaff:     c.Locals("isStaff").(bool),
		IsSuperuser: c.Locals("isSuperuser").(bool),
	}
	s.GroupID = paramInt(c, "groupID")
	s.ListID = paramInt(c, "listID")
	s.TaskID = paramInt(c, "taskID")
	return s
}

func paramInt(c *fiber.Ctx, name string) *int {
	if c.Params(name) == "" {
		return nil
	}
	v, err := c.ParamsInt(name)
	if err != nil {
		return nil
	}
	return &v
}
