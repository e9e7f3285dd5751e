package utils

import (
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"somchai.p@kku.ac.th",
		"reviewer+track@example.com",
	}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("expected %q to be valid", email)
		}
	}

	invalid := []string{
		"",
		"no-at-sign",
		"missing@tld",
		"@example.com",
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("expected %q to be invalid", email)
		}
	}
}

func TestValidateORCID(t *testing.T) {
	valid := []string{
		"0000-0002-1825-0097",
		"0000-0001-5109-371X",
	}
	for _, orcid := range valid {
		if !ValidateORCID(orcid) {
			t.Errorf("expected %q to be valid", orcid)
		}
	}

	invalid := []string{
		"",
		"0000-0002-1825-009",
		"0000-0002-1825-00971",
		"0000000218250097",
		"0000-0002-1825-009x",
	}
	for _, orcid := range invalid {
		if ValidateORCID(orcid) {
			t.Errorf("expected %q to be invalid", orcid)
		}
	}
}

func TestValidateScore(t *testing.T) {
	for score := 1; score <= 10; score++ {
		if !ValidateScore(score) {
			t.Errorf("expected %d to be valid", score)
		}
	}
	for _, score := range []int{0, -1, 11, 100} {
		if ValidateScore(score) {
			t.Errorf("expected %d to be invalid", score)
		}
	}
}

func TestValidateAbstractWordCount(t *testing.T) {
	short := "too short"
	if ok, _ := ValidateAbstractWordCount(short, 100, 500); ok {
		t.Error("expected short abstract to fail")
	}

	words := make([]string, 120)
	for i := range words {
		words[i] = "word"
	}
	abstract := strings.Join(words, " ")
	if ok, msg := ValidateAbstractWordCount(abstract, 100, 500); !ok {
		t.Errorf("expected 120-word abstract to pass, got %q", msg)
	}

	long := strings.TrimSpace(strings.Repeat("word ", 501))
	if ok, _ := ValidateAbstractWordCount(long, 100, 500); ok {
		t.Error("expected over-long abstract to fail")
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, _ := ValidatePassword("short"); ok {
		t.Error("expected short password to fail")
	}
	if ok, msg := ValidatePassword("longenough1"); !ok {
		t.Errorf("expected password to pass, got %q", msg)
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := SanitizeInput("  hello\x00world  "); got != "helloworld" {
		t.Errorf("got %q", got)
	}
}
