package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := map[string]string{
		"+55 (11) 99999-0000": "+5511999990000",
		"011 9999 0000":       "01199990000",
		"  +1-202-555-0101 ":  "+12025550101",
		"55+11":               "5511",
		"n/a":                 "",
		"":                    "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizePhone(in), in)
	}
}

func TestParseFieldTransform(t *testing.T) {
	for _, name := range []string{"lowercase", "uppercase", "trim", "phone_format"} {
		tr, err := ParseFieldTransform(name)
		require.NoError(t, err)
		assert.Equal(t, FieldTransform(name), tr)
	}

	_, err := ParseFieldTransform("titlecase")
	assert.Error(t, err)
}

func TestFieldTransform_Apply(t *testing.T) {
	assert.Equal(t, "ana@x.com", TransformLowercase.Apply("Ana@X.com"))
	assert.Equal(t, "ACME", TransformUppercase.Apply("acme"))
	assert.Equal(t, "Ana", TransformTrim.Apply("  Ana "))
	assert.Equal(t, "+5511999", TransformPhoneFormat.Apply("+55 11 999"))
	assert.Equal(t, "as is", FieldTransform("").Apply("as is"))
}

func TestStoredFieldMapping_Validate(t *testing.T) {
	upper := "uppercase"
	bogus := "reverse"
	empty := ""

	t.Run("valid with transform", func(t *testing.T) {
		m, err := (&StoredFieldMapping{ID: "m1", RouteID: "r1", SourceField: "empresa", TargetField: "company", Transform: &upper}).Validate()
		require.NoError(t, err)
		assert.Equal(t, ContactFieldCompany, m.TargetField)
		require.NotNil(t, m.Transform)
		assert.Equal(t, TransformUppercase, *m.Transform)
	})

	t.Run("empty transform is none", func(t *testing.T) {
		m, err := (&StoredFieldMapping{ID: "m1", SourceField: "nome", TargetField: "fullName", Transform: &empty}).Validate()
		require.NoError(t, err)
		assert.Nil(t, m.Transform)
	})

	t.Run("unknown transform", func(t *testing.T) {
		_, err := (&StoredFieldMapping{ID: "m1", SourceField: "x", TargetField: "email", Transform: &bogus}).Validate()
		assert.ErrorContains(t, err, "unknown field transform")
	})

	t.Run("unknown target", func(t *testing.T) {
		_, err := (&StoredFieldMapping{ID: "m1", SourceField: "x", TargetField: "birthday"}).Validate()
		assert.ErrorContains(t, err, "unknown target field")
	})

	t.Run("empty source", func(t *testing.T) {
		_, err := (&StoredFieldMapping{ID: "m1", SourceField: " ", TargetField: "email"}).Validate()
		assert.Error(t, err)
	})
}

func TestMappedLead_Set(t *testing.T) {
	var lead MappedLead
	lead.Set(ContactFieldEmail, "a@x.com")
	lead.Set(ContactFieldPhone, "+1")
	lead.Set(ContactFieldFullName, "Ana Silva")
	lead.Set(ContactFieldFirstName, "Ana")
	lead.Set(ContactFieldLastName, "Silva")
	lead.Set(ContactFieldCompany, "Acme")
	lead.Set(ContactFieldPosition, "CTO")

	assert.Equal(t, MappedLead{
		Email: "a@x.com", Phone: "+1", FullName: "Ana Silva", FirstName: "Ana",
		LastName: "Silva", Company: "Acme", Position: "CTO",
	}, lead)
}
