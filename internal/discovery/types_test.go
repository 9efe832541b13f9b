package discovery

import (
	"reflect"
	"testing"
)

func TestType_Extensions(t *testing.T) {
	tests := []struct {
		t    Type
		want []string
	}{
		{PNG, []string{".png"}},
		{PNG | JPEG, []string{".png", ".jpg", ".jpeg"}},
		{BMP | TIFF, []string{".bmp", ".tif", ".tiff"}},
		{0, nil},
	}
	for _, tt := range tests {
		if got := tt.t.Extensions(); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%v.Extensions() = %v, want %v", tt.t, got, tt.want)
		}
	}

	if got := All.Extensions(); len(got) != len(DefaultExtensions) {
		t.Errorf("All covers %v, DefaultExtensions is %v", got, DefaultExtensions)
	}
}

func TestType_String(t *testing.T) {
	tests := []struct {
		t    Type
		want string
	}{
		{All, "all"},
		{PNG | BMP, "png|bmp"},
		{0, "none"},
	}
	for _, tt := range tests {
		if got := tt.t.String(); got != tt.want {
			t.Errorf("got %s, want %s", got, tt.want)
		}
	}
}

func TestParseTypes(t *testing.T) {
	got, err := ParseTypes([]string{"PNG", ".jpg", "jpeg"})
	if err != nil || got != PNG|JPEG {
		t.Errorf("got (%v, %v), want png|jpeg", got, err)
	}
	if got, _ := ParseTypes([]string{"all"}); got != All {
		t.Errorf("all: got %v", got)
	}
	if _, err := ParseTypes([]string{"heic"}); err == nil {
		t.Error("ParseTypes should reject heic")
	}
}

func TestFind_ByType(t *testing.T) {
	root := createTree(t, "a.bmp", "b.jpeg", "c.png")
	got, err := Find(root, (BMP | JPEG).Extensions(), TopLevel)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %v, want a.bmp and b.jpeg", got)
	}
}
