package platform

import "testing"

func TestRect_Ints(t *testing.T) {
	r := Rect{X: 10.4, Y: 20.6, Width: 15.5, Height: 0.2}
	got := r.Ints()
	want := [4]int{10, 21, 16, 0}
	if got != want {
		t.Errorf("Ints() = %v, want %v", got, want)
	}
}

func TestClickAt(t *testing.T) {
	ev := ClickAt(15, 25)
	if ev.Type != EventClick || ev.ClientX != 15 || ev.ClientY != 25 || ev.Button != MouseLeft {
		t.Errorf("unexpected event: %+v", ev)
	}
	if Change().Type != EventChange {
		t.Error("Change() should build a change event")
	}
}
