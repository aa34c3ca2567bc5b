package signupform

import (
	"testing"
	"time"
)

func validPersonal() Data {
	return Data{
		FirstName:   "Sarah",
		LastName:    "Johnson",
		Email:       "sarah@test.com",
		DateOfBirth: "1990-05-15",
	}
}

func TestValidateStepPersonal(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	d := validPersonal()
	if errs := ValidateStep(StepPersonal, &d, now); len(errs) != 0 {
		t.Fatalf("expected valid personal step, got %v", errs)
	}

	cases := []struct {
		name   string
		mutate func(*Data)
		field  string
	}{
		{"empty first name", func(d *Data) { d.FirstName = "" }, "first_name"},
		{"one-char first name", func(d *Data) { d.FirstName = "S" }, "first_name"},
		{"digits in last name", func(d *Data) { d.LastName = "J0hnson" }, "last_name"},
		{"missing email", func(d *Data) { d.Email = "" }, "email"},
		{"malformed email", func(d *Data) { d.Email = "not-an-email" }, "email"},
		{"missing dob", func(d *Data) { d.DateOfBirth = "" }, "date_of_birth"},
		{"garbage dob", func(d *Data) { d.DateOfBirth = "15/05/1990" }, "date_of_birth"},
		{"future dob", func(d *Data) { d.DateOfBirth = "2030-01-01" }, "date_of_birth"},
		{"ancient dob", func(d *Data) { d.DateOfBirth = "1900-01-01" }, "date_of_birth"},
		{"bad instagram", func(d *Data) { d.InstagramHandle = "sarah j!" }, "instagram_handle"},
		{"bad linkedin", func(d *Data) { d.LinkedInURL = "https://example.com/sarah" }, "linkedin_url"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validPersonal()
			tc.mutate(&d)
			errs := ValidateStep(StepPersonal, &d, now)
			if errs[tc.field] == "" {
				t.Errorf("expected error on %s, got %v", tc.field, errs)
			}
		})
	}
}

func TestValidateStepPersonalOptionalSocials(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	d := validPersonal()
	d.InstagramHandle = "@sarah.johnson_1"
	d.LinkedInURL = "https://www.linkedin.com/in/sarah-johnson/"
	if errs := ValidateStep(StepPersonal, &d, now); len(errs) != 0 {
		t.Fatalf("optional socials should pass, got %v", errs)
	}
}

func TestAgeBoundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	d := validPersonal()
	// 18 years 0 days: birthday is today.
	d.DateOfBirth = "2007-06-01"
	if errs := ValidateStep(StepPersonal, &d, now); errs["date_of_birth"] != "" {
		t.Errorf("18th birthday today should pass, got %q", errs["date_of_birth"])
	}

	// 17 years 364 days: birthday is tomorrow.
	d.DateOfBirth = "2007-06-02"
	if errs := ValidateStep(StepPersonal, &d, now); errs["date_of_birth"] == "" {
		t.Error("one day under 18 should fail")
	}
}

func TestAgeAt(t *testing.T) {
	dob := time.Date(1990, 5, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		at   time.Time
		want int
	}{
		{time.Date(2025, 5, 14, 0, 0, 0, 0, time.UTC), 34},
		{time.Date(2025, 5, 15, 0, 0, 0, 0, time.UTC), 35},
		{time.Date(2025, 5, 16, 0, 0, 0, 0, time.UTC), 35},
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), 34},
	}
	for _, tc := range cases {
		if got := AgeAt(dob, tc.at); got != tc.want {
			t.Errorf("AgeAt(%s) = %d, want %d", tc.at.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestValidateStepDemographics(t *testing.T) {
	now := time.Now()
	d := Data{AgeRange: "30s", Neighborhood: "Brickell", Occupation: "Marketing Director"}
	if errs := ValidateStep(StepDemographics, &d, now); len(errs) != 0 {
		t.Fatalf("expected valid, got %v", errs)
	}

	d.AgeRange = "teens"
	d.Neighborhood = "Wynwood"
	d.Occupation = ""
	errs := ValidateStep(StepDemographics, &d, now)
	for _, field := range []string{"age_range", "neighborhood", "occupation"} {
		if errs[field] == "" {
			t.Errorf("expected error on %s", field)
		}
	}

	d = Data{AgeRange: "30s", Neighborhood: "Brickell"}
	for i := 0; i < 501; i++ {
		d.Occupation += "x"
	}
	if errs := ValidateStep(StepDemographics, &d, now); errs["occupation"] == "" {
		t.Error("over-long occupation should fail")
	}
}

func TestValidateStepInterests(t *testing.T) {
	now := time.Now()
	d := Data{Interests: []string{"Networking & Mentorship"}}
	if errs := ValidateStep(StepInterests, &d, now); len(errs) != 0 {
		t.Fatalf("expected valid, got %v", errs)
	}
	d.Interests = nil
	if errs := ValidateStep(StepInterests, &d, now); errs["interests"] == "" {
		t.Error("no interests should fail")
	}
	d.Interests = []string{"Underwater Basket Weaving"}
	if errs := ValidateStep(StepInterests, &d, now); errs["interests"] == "" {
		t.Error("unknown interest should fail")
	}
}

func TestValidateStepPayment(t *testing.T) {
	now := time.Now()
	d := Data{TermsAccepted: true, CardComplete: true}
	if errs := ValidateStep(StepPayment, &d, now); len(errs) != 0 {
		t.Fatalf("expected valid, got %v", errs)
	}
	d = Data{TermsAccepted: true}
	if errs := ValidateStep(StepPayment, &d, now); errs["card_complete"] == "" {
		t.Error("incomplete card should fail")
	}
	d = Data{CardComplete: true}
	if errs := ValidateStep(StepPayment, &d, now); errs["terms_accepted"] == "" {
		t.Error("unaccepted terms should fail")
	}
}

func TestValidReferralCode(t *testing.T) {
	for _, code := range []string{"", "SARAH1234", "sarah1234", "SARAH1234_1756400000000"} {
		if !ValidReferralCode(code) {
			t.Errorf("expected %q to be acceptable", code)
		}
	}
	for _, code := range []string{"SARAH 1234", "señora1234", "0123456789012345678901234567890123"} {
		if ValidReferralCode(code) {
			t.Errorf("expected %q to be rejected", code)
		}
	}
}

func TestSanitize(t *testing.T) {
	d := Data{
		FirstName:       "  Sarah ",
		Email:           " Sarah@Test.COM ",
		InstagramHandle: "@sarah",
		ReferredBy:      " emma1234 ",
	}
	Sanitize(&d)
	if d.FirstName != "Sarah" || d.Email != "sarah@test.com" || d.InstagramHandle != "sarah" || d.ReferredBy != "EMMA1234" {
		t.Errorf("unexpected sanitize result: %+v", d)
	}
}
