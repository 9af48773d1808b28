package state

import "testing"

func TestClassifyPrecedence(t *testing.T) {
	loc := &Location{Latitude: 55.75, Longitude: 37.61}

	cases := []struct {
		name string
		upd  Update
		want MessageType
	}{
		{"text", Update{Text: "привет"}, TypeText},
		{"location", Update{Location: loc}, TypeLocation},
		{"photo", Update{Photo: true}, TypePhoto},
		{"audio", Update{Audio: true}, TypeAudio},
		{"video", Update{Video: true}, TypeVideo},
		{"document", Update{Document: true}, TypeDocument},
		{"callback", Update{Callback: true, CallbackData: "opt1"}, TypeCallback},
		{"empty", Update{}, TypeUnknown},
		// first-match precedence: text beats everything else
		{"text_over_location", Update{Text: "x", Location: loc}, TypeText},
		{"text_over_callback", Update{Text: "x", Callback: true}, TypeText},
		{"location_over_photo", Update{Location: loc, Photo: true}, TypeLocation},
		{"photo_over_callback", Update{Photo: true, Callback: true}, TypePhoto},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.upd); got != tc.want {
				t.Fatalf("Classify = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestAllowLists(t *testing.T) {
	type pair struct {
		st State
		mt MessageType
	}
	allowedPairs := map[pair]bool{
		{Idle, TypeText}:             true,
		{Idle, TypeLocation}:         true,
		{Idle, TypeCallback}:         true,
		{Testing, TypeText}:          true,
		{Testing, TypeCallback}:      true,
		{Registration, TypeText}:     true,
		{Registration, TypeLocation}: true,
		{Registration, TypePhoto}:    true,
	}

	all := []MessageType{TypeText, TypeLocation, TypePhoto, TypeAudio, TypeVideo, TypeDocument, TypeCallback, TypeUnknown}
	for _, st := range All() {
		for _, mt := range all {
			want := allowedPairs[pair{st, mt}]
			if got := Allows(st, mt); got != want {
				t.Errorf("Allows(%s, %s) = %v, want %v", st, mt, got, want)
			}
		}
	}
}

func TestValid(t *testing.T) {
	for _, st := range All() {
		if !Valid(st) {
			t.Errorf("Valid(%s) = false", st)
		}
	}
	for _, bad := range []State{"", "idle", "BROKEN", "TESTING "} {
		if Valid(bad) {
			t.Errorf("Valid(%q) = true", bad)
		}
		if Allows(bad, TypeText) {
			t.Errorf("unknown state %q must allow nothing", bad)
		}
	}
}
