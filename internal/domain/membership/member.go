package membership

import (
	"time"

	"github.com/library/backend/internal/domain/shared"
)

// MemberNumbers is the custom-number series for members, e.g. "M000042".
var MemberNumbers = shared.NumberScheme{Prefix: "M", Width: 6}

// Member represents a person eligible to rent, subject to the concurrent
// rental cap owned by the circulation ledger.
type Member struct {
	shared.BaseEntity
	CustomNumber     string     `gorm:"uniqueIndex;not null"`
	Name             string     `gorm:"not null"`
	PersonalNumber   int64      `gorm:"uniqueIndex;not null"`
	Phone            *string    `gorm:"uniqueIndex"`
	Email            *string    `gorm:"uniqueIndex"`
	Section          *string    `gorm:""`
	DateOfBirth      *time.Time `gorm:"type:date"`
	DateOfRetirement *time.Time `gorm:"type:date"`
}

// TableName returns the table name for GORM
func (Member) TableName() string {
	return "members"
}

// NewMember creates a member after normalizing and validating its fields. An
// empty customNumber means the persistence layer allocates the next number in
// the MemberNumbers series during creation.
func NewMember(customNumber, name string, personalNumber int64) (*Member, error) {
	member := &Member{
		BaseEntity:     shared.NewBaseEntity(),
		CustomNumber:   shared.NormalizeName(customNumber),
		Name:           shared.NormalizeName(name),
		PersonalNumber: personalNumber,
	}
	if errs := member.Validate(); errs.HasErrors() {
		return nil, errs
	}
	return member, nil
}

// SetPhone sets the optional phone number; blank clears it.
func (m *Member) SetPhone(phone string) {
	phone = shared.NormalizeName(phone)
	if phone == "" {
		m.Phone = nil
		return
	}
	m.Phone = &phone
}

// SetEmail sets the optional email address; blank clears it.
func (m *Member) SetEmail(email string) {
	email = shared.NormalizeName(email)
	if email == "" {
		m.Email = nil
		return
	}
	m.Email = &email
}

// SetSection sets the optional section label; blank clears it.
func (m *Member) SetSection(section string) {
	section = shared.NormalizeName(section)
	if section == "" {
		m.Section = nil
		return
	}
	m.Section = &section
}

// Validate checks the member's own invariants. Uniqueness of the custom
// number, personal number, phone and email is enforced by the store.
func (m *Member) Validate() shared.ValidationErrors {
	var errs shared.ValidationErrors
	if m.Name == "" {
		errs = errs.Add("name", "can't be blank")
	}
	if m.PersonalNumber <= 0 {
		errs = errs.Add("personal_number", "must be greater than 0")
	}
	if m.Phone != nil && len(*m.Phone) != 10 {
		errs = errs.Add("phone", "is the wrong length (should be 10 characters)")
	}
	return errs
}
