// Package handler implements the HTTP endpoints. Request DTOs validate
// themselves and aggregate every field violation into one details map, so a
// caller sees all problems in a single round trip.
package handler

import (
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/iliyamo/hr-admin/internal/model"
)

// dateLayout is the wire format for date_of_birth fields.
const dateLayout = "2006-01-02"

var (
	emailRe = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)
	phoneRe = regexp.MustCompile(`^\+?\d{9,15}$`)
)

// roleResponse is the sanitized role shape returned to clients.
type roleResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// userResponse is the sanitized user shape: everything except the password
// hash.
type userResponse struct {
	ID          int64          `json:"id"`
	FullName    string         `json:"fullName"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	UserName    string         `json:"userName"`
	Address     string         `json:"address"`
	DateOfBirth string         `json:"dateOfBirth,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	Active      bool           `json:"active"`
	Roles       []roleResponse `json:"roles"`
}

func toRoleResponse(r model.Role) roleResponse {
	return roleResponse{ID: r.ID, Name: r.Name, Description: r.Description}
}

func toUserResponse(u *model.User) userResponse {
	roles := make([]roleResponse, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, toRoleResponse(r))
	}
	resp := userResponse{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		Phone:     u.Phone,
		UserName:  u.UserName,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
		Active:    u.IsActive,
		Roles:     roles,
	}
	if u.DateOfBirth != nil {
		resp.DateOfBirth = u.DateOfBirth.Format(dateLayout)
	}
	return resp
}

// passwordOK enforces the password policy: 6-50 characters with at least one
// uppercase letter and one digit.
func passwordOK(pw string) bool {
	if len(pw) < 6 || len(pw) > 50 {
		return false
	}
	var hasUpper, hasDigit bool
	for _, r := range pw {
		if unicode.IsUpper(r) {
			hasUpper = true
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
	}
	return hasUpper && hasDigit
}

// parseDOB parses and validates a date-of-birth string; the date must lie in
// the past.
func parseDOB(s string, details map[string]any) *time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		details["dateOfBirth"] = "date of birth must be formatted as YYYY-MM-DD"
		return nil
	}
	if !t.Before(time.Now()) {
		details["dateOfBirth"] = "date of birth must be in the past"
		return nil
	}
	return &t
}

// createUserRequest is the admin user-creation payload.
type createUserRequest struct {
	FullName    string  `json:"fullName"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	UserName    string  `json:"userName"`
	Password    string  `json:"password"`
	Address     string  `json:"address"`
	DateOfBirth string  `json:"dateOfBirth"`
	Roles       []int64 `json:"roles"`
}

// validate aggregates every violation; it never stops at the first one.
func (r *createUserRequest) validate() (map[string]any, *time.Time) {
	details := map[string]any{}
	if strings.TrimSpace(r.FullName) == "" {
		details["fullName"] = "full name is required"
	} else if len(r.FullName) > 100 {
		details["fullName"] = "full name must be at most 100 characters"
	}
	if strings.TrimSpace(r.Email) == "" {
		details["email"] = "email is required"
	} else if !emailRe.MatchString(r.Email) {
		details["email"] = "email must be valid"
	}
	if strings.TrimSpace(r.Phone) == "" {
		details["phone"] = "phone is required"
	} else if !phoneRe.MatchString(r.Phone) {
		details["phone"] = "phone number is invalid"
	}
	if strings.TrimSpace(r.UserName) == "" {
		details["userName"] = "username is required"
	} else if len(r.UserName) > 50 || strings.ContainsFunc(r.UserName, unicode.IsSpace) {
		details["userName"] = "username must be at most 50 characters without spaces"
	}
	if r.Password == "" {
		details["password"] = "password is required"
	} else if !passwordOK(r.Password) {
		details["password"] = "password must be 6-50 characters with at least one uppercase letter and one number"
	}
	if len(r.Address) > 200 {
		details["address"] = "address must be at most 200 characters"
	}
	var dob *time.Time
	if r.DateOfBirth == "" {
		details["dateOfBirth"] = "date of birth is required"
	} else {
		dob = parseDOB(r.DateOfBirth, details)
	}
	if len(r.Roles) == 0 {
		details["roles"] = "at least one role must be assigned"
	}
	return details, dob
}

// adminUpdateUserRequest carries partial profile fields plus an optional full
// role-set replacement. nil RoleIDs leaves roles untouched; an empty list
// clears them.
type adminUpdateUserRequest struct {
	FullName    *string `json:"fullName"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	DateOfBirth *string `json:"dateOfBirth"`
	RoleIDs     []int64 `json:"roleIds"`

	dob *time.Time
}

func (r *adminUpdateUserRequest) validate() map[string]any {
	details := map[string]any{}
	if r.FullName != nil && len(*r.FullName) > 100 {
		details["fullName"] = "full name must be at most 100 characters"
	}
	if r.Email != nil && *r.Email != "" && !emailRe.MatchString(*r.Email) {
		details["email"] = "email must be valid"
	}
	if r.Phone != nil && *r.Phone != "" && !phoneRe.MatchString(*r.Phone) {
		details["phone"] = "phone number is invalid"
	}
	if r.Address != nil && len(*r.Address) > 200 {
		details["address"] = "address must be at most 200 characters"
	}
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		r.dob = parseDOB(*r.DateOfBirth, details)
	}
	return details
}

// updateProfileRequest is the self-service profile update payload.
type updateProfileRequest struct {
	FullName    *string `json:"fullName"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	DateOfBirth *string `json:"dateOfBirth"`

	dob *time.Time
}

func (r *updateProfileRequest) validate() map[string]any {
	details := map[string]any{}
	if r.FullName != nil && len(*r.FullName) > 100 {
		details["fullName"] = "full name must be at most 100 characters"
	}
	if r.Email != nil && *r.Email != "" && !emailRe.MatchString(*r.Email) {
		details["email"] = "email must be valid"
	}
	if r.Phone != nil && *r.Phone != "" && !phoneRe.MatchString(*r.Phone) {
		details["phone"] = "phone number is invalid"
	}
	if r.Address != nil && len(*r.Address) > 200 {
		details["address"] = "address must be at most 200 characters"
	}
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		r.dob = parseDOB(*r.DateOfBirth, details)
	}
	return details
}

// changePasswordRequest verifies the old password before accepting the new
// one.
type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

func (r *changePasswordRequest) validate() map[string]any {
	details := map[string]any{}
	if r.OldPassword == "" {
		details["oldPassword"] = "old password is required"
	}
	if r.NewPassword == "" {
		details["newPassword"] = "new password is required"
	} else if !passwordOK(r.NewPassword) {
		details["newPassword"] = "password must be 6-50 characters with at least one uppercase letter and one number"
	}
	return details
}

// createRoleRequest is the role-creation payload.
type createRoleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r *createRoleRequest) validate() map[string]any {
	details := map[string]any{}
	name := strings.TrimSpace(r.Name)
	if name == "" {
		details["name"] = "role name is required"
	} else if len(name) < 3 || len(name) > 50 {
		details["name"] = "role name must be between 3 and 50 characters"
	}
	if len(r.Description) > 255 {
		details["description"] = "description can be up to 255 characters"
	}
	return details
}

// statusRequest toggles the stored is_active flag.
type statusRequest struct {
	Active *bool `json:"active"`
}
