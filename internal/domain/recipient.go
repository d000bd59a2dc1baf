package domain

import (
	"fmt"
	"strings"
)

// Role identifies which kind of account owns a recipient record.
type Role string

const (
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
	RoleAdmin   Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleParent, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole accepts any letter case.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// RecipientKey is the identity whose record is subscribed to.
type RecipientKey struct {
	Role Role
	ID   string
}

func NewRecipientKey(role Role, id string) (RecipientKey, error) {
	if !role.IsValid() {
		return RecipientKey{}, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return RecipientKey{}, ErrEmptyRecipientID
	}
	return RecipientKey{Role: role, ID: id}, nil
}

func (k RecipientKey) String() string {
	return k.Role.String() + ":" + k.ID
}

// RecipientRecord is the ordered list of alerts held for one recipient.
// The external store owns it; the pipeline only reads it and marks items read.
type RecipientRecord struct {
	Key   RecipientKey
	Items []AlertItem
}

func (r *RecipientRecord) Unread() []AlertItem {
	unread := make([]AlertItem, 0, len(r.Items))
	for _, item := range r.Items {
		if item.IsUnread() {
			unread = append(unread, item)
		}
	}
	return unread
}
