package text

import (
	"errors"
	"testing"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

func TestRegistryRegisterAndLookup(t *testing.T) {
	r := NewRegistry()

	face, err := r.Register("regular", goregular.TTF)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if face == nil {
		t.Fatal("Register returned nil face")
	}

	got, err := r.Lookup("regular")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got != face {
		t.Error("Lookup returned a different face")
	}
}

func TestRegistryDefaultIsFirstRegistered(t *testing.T) {
	r := NewRegistry()
	first, _ := r.Register("regular", goregular.TTF)
	if _, err := r.Register("bold", gobold.TTF); err != nil {
		t.Fatalf("Register bold: %v", err)
	}

	if r.Default() != first {
		t.Error("Default changed after second registration")
	}

	// Empty name resolves to the default.
	got, err := r.Lookup("")
	if err != nil {
		t.Fatalf("Lookup empty: %v", err)
	}
	if got != first {
		t.Error("empty-name lookup did not return the default face")
	}
}

func TestRegistryContentDedup(t *testing.T) {
	r := NewRegistry()
	a, _ := r.Register("regular", goregular.TTF)
	b, err := r.Register("alias", goregular.TTF)
	if err != nil {
		t.Fatalf("Register alias: %v", err)
	}
	if a != b {
		t.Error("identical bytes produced distinct faces")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestRegistryNameConflict(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Register("f", goregular.TTF); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := r.Register("f", gobold.TTF); err == nil {
		t.Error("re-registering a name with different content succeeded")
	}
}

func TestRegistryUnknownFont(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Lookup("missing"); !errors.Is(err, ErrUnknownFont) {
		t.Errorf("Lookup error = %v, want ErrUnknownFont", err)
	}
	if _, err := r.Lookup(""); !errors.Is(err, ErrUnknownFont) {
		t.Errorf("empty lookup on empty registry = %v, want ErrUnknownFont", err)
	}
}

func TestRegistryInvalidFont(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Register("bad", []byte("not a font")); err == nil {
		t.Error("Register accepted garbage bytes")
	}
}

func TestRegisterBuiltin(t *testing.T) {
	r := NewRegistry()
	face, err := RegisterBuiltin(r)
	if err != nil {
		t.Fatalf("RegisterBuiltin: %v", err)
	}
	if r.Default() != face {
		t.Error("builtin face is not the default on an empty registry")
	}
}
