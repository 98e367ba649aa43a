package buddha

import (
	"errors"
	"testing"
)

func TestPolicy_Retain(t *testing.T) {
	tests := []struct {
		policy  Policy
		escaped bool
		want    bool
	}{
		{Escaping, true, true},
		{Escaping, false, false},
		{NonEscaping, true, false},
		{NonEscaping, false, true},
	}

	for _, tt := range tests {
		if got := tt.policy.Retain(tt.escaped); got != tt.want {
			t.Errorf("%s.Retain(%v) = %v, want %v", tt.policy, tt.escaped, got, tt.want)
		}
	}
}

func TestParseEnums(t *testing.T) {
	if p, err := ParsePolicy("Non_Escaping"); err != nil || p != NonEscaping {
		t.Errorf("ParsePolicy(Non_Escaping) = %v, %v", p, err)
	}
	if m, err := ParseSeedMode("random-constant"); err != nil || m != RandomConstant {
		t.Errorf("ParseSeedMode = %v, %v", m, err)
	}
	if s, err := ParseStrategy("persistent-buffer"); err != nil || s != PersistentBuffer {
		t.Errorf("ParseStrategy = %v, %v", s, err)
	}
	if a, err := ParseAccumulation("progressive"); err != nil || a != Progressive {
		t.Errorf("ParseAccumulation = %v, %v", a, err)
	}
}

func TestParseEnums_Invalid(t *testing.T) {
	parsers := map[string]func() error{
		"policy":       func() error { _, err := ParsePolicy("sideways"); return err },
		"seed mode":    func() error { _, err := ParseSeedMode("both"); return err },
		"strategy":     func() error { _, err := ParseStrategy("sometimes"); return err },
		"accumulation": func() error { _, err := ParseAccumulation("never"); return err },
	}

	for name, parse := range parsers {
		t.Run(name, func(t *testing.T) {
			err := parse()
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("expected ErrConfiguration, got %v", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ConfigError, got %T", err)
			}
		})
	}
}

func TestSeedMode_Start(t *testing.T) {
	sample, fixed := complex(0.3, 0.2), complex(0.5, 0)

	z0, c := RandomSeed.Start(sample, fixed)
	if z0 != sample || c != fixed {
		t.Errorf("random-seed: z0=%v c=%v", z0, c)
	}

	z0, c = RandomConstant.Start(sample, fixed)
	if z0 != fixed || c != sample {
		t.Errorf("random-constant: z0=%v c=%v", z0, c)
	}
}

func TestResourceError(t *testing.T) {
	cause := errors.New("no context")
	err := NewResourceError("opengl", cause)

	if !errors.Is(err, ErrResourceInit) {
		t.Error("ResourceError should match ErrResourceInit")
	}
	if !errors.Is(err, cause) {
		t.Error("ResourceError should unwrap to its cause")
	}
	if err.Error() != "opengl: no context" {
		t.Errorf("Error() = %q", err.Error())
	}
}
