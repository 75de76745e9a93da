package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestContact_FillEmpty(t *testing.T) {
	t.Run("existing values win", func(t *testing.T) {
		c := &Contact{FirstName: "Ana", Email: "a@x.com"}
		changed := c.FillEmpty(&MappedLead{
			FirstName: "Anna",
			LastName:  "Silva",
			Email:     "other@x.com",
			Phone:     "+5511999",
		})

		assert.Equal(t, []string{"last_name", "phone"}, changed)
		assert.Equal(t, "Ana", c.FirstName)
		assert.Equal(t, "Silva", c.LastName)
		assert.Equal(t, "a@x.com", c.Email)
		assert.Equal(t, "+5511999", c.Phone)
	})

	t.Run("nothing to fill", func(t *testing.T) {
		c := &Contact{FirstName: "Ana", LastName: "Silva"}
		assert.Empty(t, c.FillEmpty(&MappedLead{FirstName: "Maria"}))
	})
}

func TestNewContactFromLead(t *testing.T) {
	now := time.Now().UTC()
	c := NewContactFromLead("c-1", "ws-7", &MappedLead{FirstName: "Ana", LastName: "Silva", Email: "a@x.com"}, now)

	assert.Equal(t, "ws-7", c.WorkspaceID)
	assert.Equal(t, ContactSourceLeadAds, c.Source)
	assert.Equal(t, "Ana Silva", c.FullName())
	assert.Equal(t, now, c.CreatedAt)
}

func TestDedupKeys(t *testing.T) {
	tests := []struct {
		name      string
		lead      MappedLead
		wantEmail string
		wantPhone string
	}{
		{"both", MappedLead{Email: " Ana@X.com ", Phone: "+55 11 999"}, "ana@x.com", "+5511999"},
		{"local address kept", MappedLead{Email: "Ana@Localhost", Phone: "999"}, "ana@localhost", "999"},
		{"unvalidated email kept", MappedLead{Email: "not-an-email"}, "not-an-email", ""},
		{"nothing", MappedLead{}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, phone := DedupKeys(&tt.lead)
			assert.Equal(t, tt.wantEmail, email)
			assert.Equal(t, tt.wantPhone, phone)
		})
	}
}
