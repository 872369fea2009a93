package accessservice

// Role роль пользователя в системе
type Role string

const (
	RoleClient          Role = "CLIENT"
	RoleAdminMaster     Role = "ADMIN_MASTER"
	RoleAdminAttendant  Role = "ADMIN_ATTENDANT"
	RoleAdminInstructor Role = "ADMIN_INSTRUCTOR"
)

// IsAdmin возвращает true для любой административной роли
func (r Role) IsAdmin() bool {
	switch r {
	case RoleAdminMaster, RoleAdminAttendant, RoleAdminInstructor:
		return true
	}
	return false
}

// Capabilities набор прав пользователя
type Capabilities struct {
	UserID   int64    `json:"user_id"`
	Role     Role     `json:"role"`
	Features []string `json:"features"`
}

// HasFeature проверяет наличие конкретного права
func (c *Capabilities) HasFeature(feature string) bool {
	for _, f := range c.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// CanManageSchedule разрешено ли управление блокировками и окнами преподавания
func (c *Capabilities) CanManageSchedule() bool {
	return c.Role == RoleAdminMaster || c.Role == RoleAdminAttendant
}

// CanBookFor разрешено ли создавать бронирования от имени другого клиента
func (c *Capabilities) CanBookFor() bool {
	return c.Role.IsAdmin()
}

// ErrorResponse модель ошибки от сервиса доступа
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
