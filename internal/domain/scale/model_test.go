package scale

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestStringList_CommaJoined(t *testing.T) {
	var l StringList
	if err := json.Unmarshal([]byte(`"AVC, Doenças Neuromusculares ,Parkinson"`), &l); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := StringList{"AVC", "Doenças Neuromusculares", "Parkinson"}
	if !reflect.DeepEqual(l, want) {
		t.Errorf("got %v, want %v", l, want)
	}
}

func TestStringList_Array(t *testing.T) {
	var l StringList
	if err := json.Unmarshal([]byte(`["Fisioterapia"," Fonoaudiologia ",""]`), &l); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := StringList{"Fisioterapia", "Fonoaudiologia"}
	if !reflect.DeepEqual(l, want) {
		t.Errorf("got %v, want %v", l, want)
	}
}

func TestStringList_EmptyString(t *testing.T) {
	var l StringList
	if err := json.Unmarshal([]byte(`""`), &l); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(l) != 0 {
		t.Errorf("expected empty list, got %v", l)
	}
}

func TestStringList_Intersects(t *testing.T) {
	l := StringList{"AVC", "Parkinson"}
	if !l.Intersects(map[string]bool{"Parkinson": true}) {
		t.Error("expected intersection")
	}
	if l.Intersects(map[string]bool{"TCE": true}) {
		t.Error("unexpected intersection")
	}
}

func TestAssociation_UnmarshalBothShapes(t *testing.T) {
	raw := `{
		"nome": "Escala de Berg",
		"diagnosticos": "AVC,Parkinson",
		"especialidades": ["Fisioterapia"]
	}`
	var a Association
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !a.Diagnosticos.Contains("Parkinson") {
		t.Errorf("diagnosticos = %v", a.Diagnosticos)
	}
	if !a.Especialidades.Contains("Fisioterapia") {
		t.Errorf("especialidades = %v", a.Especialidades)
	}
}
