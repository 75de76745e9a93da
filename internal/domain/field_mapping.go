package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// ContactField is a mapping target
type ContactField string

const (
	ContactFieldEmail     ContactField = "email"
	ContactFieldPhone     ContactField = "phone"
	ContactFieldFullName  ContactField = "fullName"
	ContactFieldFirstName ContactField = "firstName"
	ContactFieldLastName  ContactField = "lastName"
	ContactFieldCompany   ContactField = "company"
	ContactFieldPosition  ContactField = "position"
)

var contactFields = map[ContactField]struct{}{
	ContactFieldEmail:     {},
	ContactFieldPhone:     {},
	ContactFieldFullName:  {},
	ContactFieldFirstName: {},
	ContactFieldLastName:  {},
	ContactFieldCompany:   {},
	ContactFieldPosition:  {},
}

func ParseContactField(s string) (ContactField, error) {
	f := ContactField(s)
	if _, ok := contactFields[f]; !ok {
		return "", fmt.Errorf("unknown target field: %q", s)
	}
	return f, nil
}

// FieldTransform is a named value normalization
type FieldTransform string

const (
	TransformLowercase   FieldTransform = "lowercase"
	TransformUppercase   FieldTransform = "uppercase"
	TransformTrim        FieldTransform = "trim"
	TransformPhoneFormat FieldTransform = "phone_format"
)

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone keeps digits and a leading '+'
func NormalizePhone(s string) string {
	s = strings.TrimSpace(s)
	digits := nonDigits.ReplaceAllString(s, "")
	if digits != "" && strings.HasPrefix(s, "+") {
		return "+" + digits
	}
	return digits
}

var fieldTransforms = map[FieldTransform]func(string) string{
	TransformLowercase:   strings.ToLower,
	TransformUppercase:   strings.ToUpper,
	TransformTrim:        strings.TrimSpace,
	TransformPhoneFormat: NormalizePhone,
}

// ParseFieldTransform resolves a stored transform name. Unknown names are rejected.
func ParseFieldTransform(s string) (FieldTransform, error) {
	t := FieldTransform(s)
	if _, ok := fieldTransforms[t]; !ok {
		return "", fmt.Errorf("unknown field transform: %q", s)
	}
	return t, nil
}

// Apply runs the transform; the empty transform is the identity
func (t FieldTransform) Apply(value string) string {
	fn, ok := fieldTransforms[t]
	if !ok {
		return value
	}
	return fn(value)
}

// FieldMapping maps one platform field onto a contact field
type FieldMapping struct {
	ID          string          `json:"id"`
	RouteID     string          `json:"route_id"`
	SourceField string          `json:"source_field"`
	TargetField ContactField    `json:"target_field"`
	Transform   *FieldTransform `json:"transform,omitempty"`
}

// StoredFieldMapping is a mapping row as persisted, before validation
type StoredFieldMapping struct {
	ID          string
	RouteID     string
	SourceField string
	TargetField string
	Transform   *string
}

// Validate converts a stored row into a FieldMapping
func (s *StoredFieldMapping) Validate() (*FieldMapping, error) {
	if strings.TrimSpace(s.SourceField) == "" {
		return nil, fmt.Errorf("mapping %s has an empty source field", s.ID)
	}
	target, err := ParseContactField(s.TargetField)
	if err != nil {
		return nil, fmt.Errorf("mapping %s: %w", s.ID, err)
	}
	m := &FieldMapping{
		ID:          s.ID,
		RouteID:     s.RouteID,
		SourceField: s.SourceField,
		TargetField: target,
	}
	if s.Transform != nil && *s.Transform != "" {
		t, err := ParseFieldTransform(*s.Transform)
		if err != nil {
			return nil, fmt.Errorf("mapping %s: %w", s.ID, err)
		}
		m.Transform = &t
	}
	return m, nil
}

// MappedLead is the contact-shaped output of the field mapper
type MappedLead struct {
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	FullName  string `json:"fullName,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Company   string `json:"company,omitempty"`
	Position  string `json:"position,omitempty"`
}

// IsEmpty reports whether nothing usable for a contact was mapped
func (m *MappedLead) IsEmpty() bool {
	return m.Email == "" && m.Phone == "" && m.FullName == "" && m.FirstName == "" && m.LastName == ""
}

// Set assigns a value to the field named by target
func (m *MappedLead) Set(target ContactField, value string) {
	switch target {
	case ContactFieldEmail:
		m.Email = value
	case ContactFieldPhone:
		m.Phone = value
	case ContactFieldFullName:
		m.FullName = value
	case ContactFieldFirstName:
		m.FirstName = value
	case ContactFieldLastName:
		m.LastName = value
	case ContactFieldCompany:
		m.Company = value
	case ContactFieldPosition:
		m.Position = value
	}
}
