package value

import "testing"

type fakeObject struct {
	marked bool
	next   Object
}

func (f *fakeObject) ObjType() ObjType            { return ObjString }
func (f *fakeObject) String() string              { return "fake" }
func (f *fakeObject) Marked() bool                { return f.marked }
func (f *fakeObject) SetMarked(m bool)             { f.marked = m }
func (f *fakeObject) Next() Object                 { return f.next }
func (f *fakeObject) SetNext(n Object)             { f.next = n }
func (f *fakeObject) Blacken(mark func(Value))     {}
func (f *fakeObject) Size() uintptr                { return 8 }

func TestTruthy(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{nil, false},
		{false, false},
		{true, true},
		{0.0, true},
		{"", true},
		{&fakeObject{}, true},
	}
	for _, c := range cases {
		if got := Truthy(c.v); got != c.want {
			t.Errorf("Truthy(%#v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestEqualNumbersAndBools(t *testing.T) {
	if !Equal(1.0, 1.0) {
		t.Error("expected 1.0 == 1.0")
	}
	if Equal(1.0, 2.0) {
		t.Error("expected 1.0 != 2.0")
	}
	if !Equal(true, true) {
		t.Error("expected true == true")
	}
	if Equal(1.0, true) {
		t.Error("expected mismatched types to compare unequal")
	}
	if !Equal(nil, nil) {
		t.Error("expected nil == nil")
	}
}

func TestEqualObjectsByIdentity(t *testing.T) {
	a := &fakeObject{}
	b := &fakeObject{}
	if Equal(a, a) == false {
		t.Error("expected an object to equal itself")
	}
	if Equal(a, b) {
		t.Error("expected distinct objects to compare unequal even with identical contents")
	}
}

func TestStringify(t *testing.T) {
	if Stringify(nil) != "nil" {
		t.Errorf("got %q, want nil", Stringify(nil))
	}
	if Stringify(true) != "true" {
		t.Errorf("got %q, want true", Stringify(true))
	}
	if Stringify(3.0) != "3" {
		t.Errorf("got %q, want 3", Stringify(3.0))
	}
	if Stringify(3.5) != "3.5" {
		t.Errorf("got %q, want 3.5", Stringify(3.5))
	}
}

func TestAsObject(t *testing.T) {
	if _, ok := AsObject(3.0); ok {
		t.Error("expected a number to not be an object")
	}
	obj := &fakeObject{}
	got, ok := AsObject(obj)
	if !ok || got != Object(obj) {
		t.Error("expected AsObject to unwrap an Object value")
	}
}
