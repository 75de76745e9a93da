package service

import (
	"sort"
	"strings"

	"github.com/leadpipe/leadpipe/internal/domain"
)

func transformPtr(t domain.FieldTransform) *domain.FieldTransform {
	return &t
}

// defaultFieldMappings covers the platform's standard lead form questions
var defaultFieldMappings = []*domain.FieldMapping{
	{SourceField: "email", TargetField: domain.ContactFieldEmail, Transform: transformPtr(domain.TransformLowercase)},
	{SourceField: "phone_number", TargetField: domain.ContactFieldPhone, Transform: transformPtr(domain.TransformPhoneFormat)},
	{SourceField: "phone", TargetField: domain.ContactFieldPhone, Transform: transformPtr(domain.TransformPhoneFormat)},
	{SourceField: "full_name", TargetField: domain.ContactFieldFullName},
	{SourceField: "first_name", TargetField: domain.ContactFieldFirstName},
	{SourceField: "last_name", TargetField: domain.ContactFieldLastName},
	{SourceField: "company_name", TargetField: domain.ContactFieldCompany},
	{SourceField: "company", TargetField: domain.ContactFieldCompany},
	{SourceField: "job_title", TargetField: domain.ContactFieldPosition},
}

// MapFields converts platform field data into contact attributes. Route
// mappings replace the default for the same source key; keys with no
// mapping are ignored. When several keys feed one attribute the first key
// in lexical order that yields a value wins.
func MapFields(fieldData map[string]string, custom []*domain.FieldMapping) *domain.MappedLead {
	lookup := make(map[string]*domain.FieldMapping, len(defaultFieldMappings)+len(custom))
	for _, m := range defaultFieldMappings {
		lookup[m.SourceField] = m
	}
	for _, m := range custom {
		lookup[m.SourceField] = m
	}

	keys := make([]string, 0, len(fieldData))
	for k := range fieldData {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lead := &domain.MappedLead{}
	assigned := make(map[domain.ContactField]bool)
	for _, key := range keys {
		m, ok := lookup[key]
		if !ok || assigned[m.TargetField] {
			continue
		}
		value := strings.TrimSpace(fieldData[key])
		if m.Transform != nil {
			value = m.Transform.Apply(value)
		}
		if value == "" {
			continue
		}
		lead.Set(m.TargetField, value)
		assigned[m.TargetField] = true
	}

	if lead.FullName != "" && !assigned[domain.ContactFieldFirstName] && !assigned[domain.ContactFieldLastName] {
		lead.FirstName, lead.LastName = splitFullName(lead.FullName)
	}

	return lead
}

// splitFullName splits on the first run of whitespace
func splitFullName(fullName string) (first, last string) {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return "", ""
	}
	first = fields[0]
	if len(fields) > 1 {
		last = strings.Join(fields[1:], " ")
	}
	return first, last
}
