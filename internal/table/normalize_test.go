package table

import (
	"errors"
	"testing"
)

func TestNormalize_CanonicalForms(t *testing.T) {
	t.Parallel()

	cases := []struct {
		field, in, want string
	}{
		{FieldHI, "7,5", "7.50"},
		{FieldHI, "7.5", "7.50"},
		{FieldHI, " 15,2 ", "15.20"},
		{FieldHI, "", ""},
		{FieldHI, "   ", ""},
		{FieldNumber, "42", "000042"},
		{FieldNumber, "000042", "000042"},
		{FieldNumber, "1234567", "1234567"},
		{FieldNumber, "", ""},
		{FieldPercent, "25,0", "25"},
		{FieldPercent, "12.5", "12.5"},
		{FieldPercent, "5", "5"},
		{FieldName, "  Авдеева Наталия  ", "Авдеева Наталия"},
		{FieldGender, " Жен. ", "Жен."},
	}
	for _, tc := range cases {
		got, err := Normalize(tc.field, tc.in)
		if err != nil {
			t.Fatalf("Normalize(%q, %q) returned error: %v", tc.field, tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("Normalize(%q, %q) = %q, want %q", tc.field, tc.in, got, tc.want)
		}
	}
}

func TestNormalize_InvalidFormat(t *testing.T) {
	t.Parallel()

	for _, field := range []string{FieldHI, FieldPercent} {
		got, err := Normalize(field, "abc")
		if !errors.Is(err, ErrInvalidFormat) {
			t.Fatalf("Normalize(%q, abc) error = %v, want ErrInvalidFormat", field, err)
		}
		if got != "abc" {
			t.Fatalf("Normalize(%q, abc) = %q, want raw value back", field, got)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	cases := []struct{ field, in string }{
		{FieldHI, "7,5"},
		{FieldHI, "53.5"},
		{FieldNumber, "42"},
		{FieldNumber, "RU0042"},
		{FieldPercent, "25,0"},
		{FieldName, " Абахов Олег "},
	}
	for _, tc := range cases {
		once, err := Normalize(tc.field, tc.in)
		if err != nil {
			t.Fatalf("Normalize(%q, %q) returned error: %v", tc.field, tc.in, err)
		}
		twice, err := Normalize(tc.field, once)
		if err != nil {
			t.Fatalf("Normalize(%q, %q) second pass returned error: %v", tc.field, once, err)
		}
		if once != twice {
			t.Fatalf("Normalize(%q) not idempotent: %q -> %q -> %q", tc.field, tc.in, once, twice)
		}
	}
}
