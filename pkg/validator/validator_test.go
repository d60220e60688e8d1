package validator

import (
	"strings"
	"testing"
)

type signup struct {
	Username string  `json:"username" validate:"required,max=25,username"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"omitempty,min=5"`
	Age      int     `json:"age" validate:"gte=0,lte=150"`
	Nick     *string `json:"nick" validate:"omitempty,min=2"`
}

func TestStructValid(t *testing.T) {
	errs := Struct(signup{Username: "u-new", Email: "new@email.com"})
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestStructReportsEveryViolation(t *testing.T) {
	errs := Struct(signup{Username: "bad name!", Email: "not-an-email", Password: "abc", Age: 200})

	want := map[string]string{
		"username": "can only contain letters, numbers, _ and -",
		"email":    "must be a valid email address",
		"password": "must be at least 5 characters",
		"age":      "must be at most 150",
	}
	if len(errs) != len(want) {
		t.Fatalf("expected %d errors, got %v", len(want), errs)
	}
	for field, msg := range want {
		if errs[field] != msg {
			t.Errorf("%s: got %q, want %q", field, errs[field], msg)
		}
	}
}

func TestStructMissingRequired(t *testing.T) {
	errs := Struct(signup{})
	if errs["username"] != "is required" || errs["email"] != "is required" {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if _, ok := errs["password"]; ok {
		t.Fatalf("optional password flagged: %v", errs)
	}
}

func TestStructPointerField(t *testing.T) {
	short := "x"
	errs := Struct(signup{Username: "u1", Email: "a@b.com", Nick: &short})
	if errs["nick"] != "must be at least 2 characters" {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestValidationErrorsError(t *testing.T) {
	errs := ValidationErrors{"b": "two", "a": "one"}
	if got := errs.Error(); !strings.Contains(got, "a: one; b: two") {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestAddKeepsFirstMessage(t *testing.T) {
	errs := make(ValidationErrors)
	errs.Add("f", "first")
	errs.Add("f", "second")
	if errs["f"] != "first" {
		t.Fatalf("got %q", errs["f"])
	}
}
