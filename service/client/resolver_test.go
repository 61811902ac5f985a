package client

import (
	"testing"

	"github.com/kofiadu/salonbase-server/cmd/models"
)

func TestMergeNeverBlanksPopulatedFields(t *testing.T) {
	existing := models.Client{
		FirstName: "Ama",
		LastName:  "Mensah",
		Phone:     "+233201234567",
		Email:     "ama@example.com",
		Notes:     "prefers morning appointments",
	}

	Merge(&existing, Input{FirstName: "Ama", LastName: "", Phone: "", Email: ""})

	if existing.LastName != "Mensah" {
		t.Errorf("blank last name overwrote %q", existing.LastName)
	}
	if existing.Phone != "+233201234567" {
		t.Errorf("blank phone overwrote %q", existing.Phone)
	}
	if existing.Email != "ama@example.com" {
		t.Errorf("blank email overwrote %q", existing.Email)
	}
	if existing.Notes != "prefers morning appointments" {
		t.Errorf("notes lost: %q", existing.Notes)
	}
}

func TestMergeFillsMissingFields(t *testing.T) {
	existing := models.Client{FirstName: "Kojo", Phone: "+233501112223"}

	Merge(&existing, Input{
		LastName:    "Owusu",
		Email:       "kojo@example.com",
		HairProfile: "type 4c, prefers protective styles",
	})

	if existing.LastName != "Owusu" {
		t.Errorf("last name not filled, got %q", existing.LastName)
	}
	if existing.Email != "kojo@example.com" {
		t.Errorf("email not filled, got %q", existing.Email)
	}
	if existing.HairProfile == "" {
		t.Error("hair profile not filled")
	}
	if existing.FirstName != "Kojo" || existing.Phone != "+233501112223" {
		t.Error("unrelated fields changed during merge")
	}
}

func TestNameKeyOnlyWithoutEmail(t *testing.T) {
	withEmail := Input{FirstName: "Ama", LastName: "Mensah", Phone: "+233201234567", Email: "ama@example.com"}
	if usesNameKey(withEmail) {
		t.Error("a supplied email must be the sole identity key; name+phone fallback is not allowed")
	}

	withoutEmail := Input{FirstName: "Ama", LastName: "Mensah", Phone: "+233201234567"}
	if !usesNameKey(withoutEmail) {
		t.Error("without an email, resolution must fall back to the name+phone key")
	}
}

func TestMergeUpdatesChangedContact(t *testing.T) {
	existing := models.Client{FirstName: "Efua", Phone: "+233244000001"}

	Merge(&existing, Input{Phone: "+233244999999"})

	if existing.Phone != "+233244999999" {
		t.Errorf("expected new phone to win, got %q", existing.Phone)
	}
}
