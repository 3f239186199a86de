package model

import "testing"

func TestEventValues(t *testing.T) {
	cases := []struct {
		name  string
		got   Event
		value string
	}{
		{"registration", EventRegistration, "registration"},
		{"login", EventLogin, "login"},
		{"new order", EventNewOrder, "new_order"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if string(tc.got) != tc.value {
				t.Fatalf("expected %s, got %s", tc.value, tc.got)
			}
		})
	}
}
