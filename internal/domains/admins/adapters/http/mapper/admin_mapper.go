package mapper

import (
	admindomain "github.com/Apurer/petify-api/internal/domains/admins/domain"
	adminports "github.com/Apurer/petify-api/internal/domains/admins/ports"
)

// Admin is the transport shape of an admin; the password hash is never rendered.
type Admin struct {
	ID    string `json:"_id"`
	Name  string `json:"admin_name"`
	Email string `json:"admin_email"`
	Role  string `json:"role"`
}

// RegisterAdmin is the POST /admins/register body.
type RegisterAdmin struct {
	Name     string `json:"admin_name"`
	Email    string `json:"admin_email"`
	Password string `json:"admin_pass"`
	Role     string `json:"role"`
}

// Credentials is the admin login body.
type Credentials struct {
	Email    string `json:"admin_email"`
	Password string `json:"admin_pass"`
}

// PasswordChange is the PATCH /admins/:id/password body.
type PasswordChange struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func ToRegisterInput(body RegisterAdmin) adminports.RegisterInput {
	return adminports.RegisterInput{Name: body.Name, Email: body.Email, Password: body.Password, Role: body.Role}
}

func FromAdmin(a *admindomain.Admin) Admin {
	if a == nil {
		return Admin{}
	}
	return Admin{ID: a.ID, Name: a.Name, Email: a.Email, Role: string(a.Role)}
}

func FromAdminList(list []*admindomain.Admin) []Admin {
	out := make([]Admin, 0, len(list))
	for _, a := range list {
		out = append(out, FromAdmin(a))
	}
	return out
}
