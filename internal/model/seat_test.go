package model

import "testing"

func TestCabinClassOrdering(t *testing.T) {
	tests := []struct {
		name  string
		a, b  CabinClass
		want  bool
	}{
		{"first outranks business", CabinFirst, CabinBusiness, true},
		{"first outranks economy", CabinFirst, CabinEconomy, true},
		{"business outranks economy", CabinBusiness, CabinEconomy, true},
		{"business does not outrank first", CabinBusiness, CabinFirst, false},
		{"economy does not outrank business", CabinEconomy, CabinBusiness, false},
		{"economy does not outrank itself", CabinEconomy, CabinEconomy, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.MorePremiumThan(tt.b); got != tt.want {
				t.Errorf("%v.MorePremiumThan(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCabinClassString(t *testing.T) {
	tests := []struct {
		c    CabinClass
		want string
	}{
		{CabinFirst, "FIRST"},
		{CabinBusiness, "BUSINESS"},
		{CabinEconomy, "ECONOMY"},
		{CabinClass(9), "ECONOMY"}, // unknown values render as economy
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("CabinClass(%d).String() = %v, want %v", uint8(tt.c), got, tt.want)
		}
	}
}

func TestCabinClassValid(t *testing.T) {
	for _, c := range []CabinClass{CabinFirst, CabinBusiness, CabinEconomy} {
		if !c.Valid() {
			t.Errorf("CabinClass(%d).Valid() = false, want true", uint8(c))
		}
	}
	if CabinClass(3).Valid() {
		t.Errorf("CabinClass(3).Valid() = true, want false")
	}
}

func TestSeatStatusString(t *testing.T) {
	tests := []struct {
		s    SeatStatus
		want string
	}{
		{SeatAvailable, "AVAILABLE"},
		{SeatReserved, "RESERVED"},
		{SeatBlocked, "BLOCKED"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("SeatStatus(%d).String() = %v, want %v", uint8(tt.s), got, tt.want)
		}
	}
}
