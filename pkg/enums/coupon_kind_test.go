package enums

import "testing"

func TestParseCouponKind(t *testing.T) {
	tests := []struct {
		in      string
		want    CouponKind
		wantErr bool
	}{
		{in: "fixed", want: CouponKindFixed},
		{in: "percentage", want: CouponKindPercentage},
		{in: " Percentage ", want: CouponKindPercentage},
		{in: "free_shipping", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseCouponKind(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("expected error for %q", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("expected %q got %q", tt.want, got)
		}
	}
}

func TestCouponKindIsValid(t *testing.T) {
	if !CouponKindFixed.IsValid() || !CouponKindPercentage.IsValid() {
		t.Fatal("expected known kinds to be valid")
	}
	if CouponKind("bogus").IsValid() {
		t.Fatal("expected unknown kind to be invalid")
	}
}
