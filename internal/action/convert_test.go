package action

import (
	"reflect"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestRoundTripMap(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	in := map[string]any{
		"title":   "Home",
		"count":   float64(3),
		"visible": true,
		"nested":  map[string]any{"a": "b"},
		"list":    []any{"x", float64(1)},
	}

	tbl := MapToTable(L, in)
	out := TableToMap(tbl)

	if !reflect.DeepEqual(out, in) {
		t.Errorf("round trip = %#v, want %#v", out, in)
	}
}

func TestTableToMap_Array(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoString(`arr = {"a", "b", "c"}`); err != nil {
		t.Fatal(err)
	}
	tbl := L.GetGlobal("arr").(*lua.LTable)
	out := TableToMap(tbl)

	arr, ok := out.([]any)
	if !ok {
		t.Fatalf("expected []any, got %T", out)
	}
	if !reflect.DeepEqual(arr, []any{"a", "b", "c"}) {
		t.Errorf("arr = %v", arr)
	}
}

func TestGoToLua_Nil(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if v := GoToLua(L, nil); v != lua.LNil {
		t.Errorf("GoToLua(nil) = %v", v)
	}
	if v := LuaToGo(lua.LNil); v != nil {
		t.Errorf("LuaToGo(nil) = %v", v)
	}
}

func TestTableToStringMap(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoString(`props = {color = "red", ["font-size"] = "12px", zindex = 4}`); err != nil {
		t.Fatal(err)
	}
	tbl := L.GetGlobal("props").(*lua.LTable)
	got := TableToStringMap(tbl)

	want := map[string]string{"color": "red", "font-size": "12px", "zindex": "4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("props = %v, want %v", got, want)
	}
}
