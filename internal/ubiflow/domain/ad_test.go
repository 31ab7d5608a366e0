package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func newTestAd() *Ad {
	return NewAd(AdParams{
		Reference:   "REF-42",
		Transaction: TransactionSale,
		Price:       250000.5,
		HousingType: 1100,
		Title:       "Maison de ville",
		Description: "Belle maison",
		Pictures:    []string{"https://img.example.com/1.jpg", "https://img.example.com/2.jpg"},
		Portals:     []string{"SELOGER", "LEBONCOIN"},
	})
}

func TestAdPayloadMatchesWireShape(t *testing.T) {
	ad := newTestAd()
	ad.SetData(DataRooms, 4).SetData(DataEnergyClass, "C")

	body, err := json.Marshal(ad.Payload())
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	want := `{
		"reference": "REF-42",
		"status": "A",
		"transaction": {"code": "V", "price": 250000.5, "privatePrice": false},
		"productType": {"code": 1100},
		"title": "Maison de ville",
		"description": "Belle maison",
		"data": [
			{"code": "nb_pieces", "value": 4},
			{"code": "classe_energie", "value": "C"}
		],
		"mediaSupports": {"pictures": [
			{"sourceUrl": "https://img.example.com/1.jpg"},
			{"sourceUrl": "https://img.example.com/2.jpg"}
		]},
		"adPublications": {"adPublications": [[
			{"advertiserPublication": {"portal": {"code": "SELOGER"}}},
			{"advertiserPublication": {"portal": {"code": "LEBONCOIN"}}}
		]]}
	}`

	var got, expected any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if err := json.Unmarshal([]byte(want), &expected); err != nil {
		t.Fatalf("unmarshal expected: %v", err)
	}
	if !reflect.DeepEqual(got, expected) {
		t.Fatalf("payload mismatch\n got: %s\nwant: %s", body, want)
	}
}

func TestAdPayloadEmptyCollectionsEncodeAsArrays(t *testing.T) {
	ad := NewAd(AdParams{Reference: "EMPTY", Transaction: TransactionRent})

	body, err := json.Marshal(ad.Payload())
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if data, ok := decoded["data"].([]any); !ok || len(data) != 0 {
		t.Fatalf("expected empty data array, got %#v", decoded["data"])
	}
	publications := decoded["adPublications"].(map[string]any)["adPublications"].([]any)
	if len(publications) != 1 {
		t.Fatalf("expected a single inner publication list, got %d", len(publications))
	}
	if inner, ok := publications[0].([]any); !ok || len(inner) != 0 {
		t.Fatalf("expected empty inner list, got %#v", publications[0])
	}
}

func TestAdSetDataReplacesInPlace(t *testing.T) {
	ad := newTestAd()
	ad.SetData(DataRooms, 3).SetData(DataCity, "Lyon").SetData(DataRooms, 5)

	data := ad.Data()
	if len(data) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(data))
	}
	if data[0].Key != DataRooms || data[0].Value != 5 {
		t.Fatalf("expected replaced rooms value in first position, got %#v", data[0])
	}
	if value, ok := ad.DataValue(DataCity); !ok || value != "Lyon" {
		t.Fatalf("expected city attribute, got %v %v", value, ok)
	}
}

func TestAdIdentifierLifecycle(t *testing.T) {
	ad := newTestAd()
	if _, ok := ad.ID(); ok {
		t.Fatalf("new ad must not have an identifier")
	}

	ad.AssignID(999)
	if id, ok := ad.ID(); !ok || id != 999 {
		t.Fatalf("expected id 999, got %d %v", id, ok)
	}
	if !ad.TargetsPortal("SELOGER") || ad.TargetsPortal("BIENICI") {
		t.Fatalf("unexpected portal membership")
	}
}

func TestParseDataKeyPassesUndeclaredCodes(t *testing.T) {
	key, err := ParseDataKey("nb_parkings")
	if err != nil || key.Code() != "nb_parkings" {
		t.Fatalf("expected undeclared code to pass through, got %q %v", key, err)
	}
	for _, code := range []string{"", "Nb Pieces", "9_lives", "ville;drop"} {
		if _, err := ParseDataKey(code); err == nil {
			t.Fatalf("expected malformed code %q to be rejected", code)
		}
	}
}

func TestParseEnums(t *testing.T) {
	if tr, err := ParseTransaction("L"); err != nil || tr != TransactionRent {
		t.Fatalf("expected rent transaction, got %q %v", tr, err)
	}
	if _, err := ParseTransaction("X"); err == nil {
		t.Fatalf("expected unknown transaction to fail")
	}
	if u, err := ParseUniverse("NAUT"); err != nil || u != UniverseNautical {
		t.Fatalf("expected nautical universe, got %q %v", u, err)
	}
	if _, err := ParseUniverse("immo"); err == nil {
		t.Fatalf("universe codes are case sensitive")
	}
}
