package store

import (
	"context"
	"testing"

	"aicms/internal/models"
)

func TestContentTypeStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewContentTypeStore(db)
	ctx := context.Background()

	ct := testContentType(t, db)

	if ct.ID == 0 {
		t.Fatal("expected generated id")
	}
	if len(ct.Fields) != 2 {
		t.Fatalf("fields: got %d, want 2", len(ct.Fields))
	}

	byID, err := s.FindByID(ctx, ct.ID)
	if err != nil || byID == nil {
		t.Fatalf("FindByID: %v, %v", byID, err)
	}
	if byID.Fields[0].Name != "body" || !byID.Fields[0].Required {
		t.Errorf("first field: got %+v", byID.Fields[0])
	}
	if byID.Fields[1].Type != models.FieldTypeNumber {
		t.Errorf("second field type: got %q", byID.Fields[1].Type)
	}

	byName, err := s.FindByName(ctx, ct.Name)
	if err != nil || byName == nil || byName.ID != ct.ID {
		t.Fatalf("FindByName: %v, %v", byName, err)
	}

	missing, err := s.FindByName(ctx, uniqueName("missing"))
	if err != nil || missing != nil {
		t.Errorf("FindByName(missing): got %v, %v", missing, err)
	}
}

func TestContentTypeStoreList(t *testing.T) {
	db := testDB(t)
	s := NewContentTypeStore(db)

	a := testContentType(t, db)
	b := testContentType(t, db)

	types, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	found := 0
	for i, ct := range types {
		if i > 0 && types[i-1].Name > ct.Name {
			t.Errorf("not ordered by name: %q before %q", types[i-1].Name, ct.Name)
		}
		if ct.ID == a.ID || ct.ID == b.ID {
			found++
			if len(ct.Fields) != 2 {
				t.Errorf("type %d fields: got %d, want 2", ct.ID, len(ct.Fields))
			}
		}
	}
	if found != 2 {
		t.Errorf("expected both test types in list, found %d", found)
	}
}
