package entities

import (
	"strings"
	"testing"
)

// TestDebugIdentifierEqual tests the matching rules across identifier kinds
func TestDebugIdentifierEqual(t *testing.T) {
	buildID := []byte{0xaa, 0xbb, 0xcc, 0xdd}
	var uuid [16]byte
	copy(uuid[:], "0123456789abcdef")
	var guid [16]byte
	copy(guid[:], "fedcba9876543210")

	tests := []struct {
		name string
		a, b DebugIdentifier
		want bool
	}{
		{
			name: "equal build-ids match",
			a:    NewBuildID(buildID),
			b:    NewBuildID([]byte{0xaa, 0xbb, 0xcc, 0xdd}),
			want: true,
		},
		{
			name: "different build-ids do not match",
			a:    NewBuildID(buildID),
			b:    NewBuildID([]byte{0xaa, 0xbb, 0xcc, 0xde}),
			want: false,
		},
		{
			name: "empty build-ids never match",
			a:    NewBuildID(nil),
			b:    NewBuildID(nil),
			want: false,
		},
		{
			name: "equal uuids match",
			a:    NewUUID(uuid),
			b:    NewUUID(uuid),
			want: true,
		},
		{
			name: "debug-link needs name and checksum",
			a:    NewDebugLink("app.debug", 0x1234),
			b:    NewDebugLink("app.debug", 0x1234),
			want: true,
		},
		{
			name: "debug-link with wrong checksum does not match",
			a:    NewDebugLink("app.debug", 0x1234),
			b:    NewDebugLink("app.debug", 0x9999),
			want: false,
		},
		{
			name: "codeview needs guid and age",
			a:    NewCodeView(guid, 2, "a.pdb"),
			b:    NewCodeView(guid, 2, "other.pdb"),
			want: true,
		},
		{
			name: "codeview with stale age does not match",
			a:    NewCodeView(guid, 2, ""),
			b:    NewCodeView(guid, 1, ""),
			want: false,
		},
		{
			name: "different kinds never match",
			a:    NewBuildID(buildID),
			b:    NewUUID(uuid),
			want: false,
		},
		{
			name: "none never matches none",
			a:    NoIdentifier(),
			b:    NoIdentifier(),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestDebugIdentifierString tests display rendering
func TestDebugIdentifierString(t *testing.T) {
	id := NewBuildID([]byte{0xde, 0xad, 0xbe, 0xef})
	if got := id.String(); got != "deadbeef" {
		t.Errorf("build-id String() = %q, want %q", got, "deadbeef")
	}

	link := NewDebugLink("app.debug", 0xcafe)
	if got := link.String(); got != "app.debug (crc32 0000cafe)" {
		t.Errorf("debug-link String() = %q", got)
	}

	if got := NoIdentifier().String(); got != "none" {
		t.Errorf("none String() = %q, want %q", got, "none")
	}
}

// TestFormatGUID tests that the packed little-endian GUID fields are
// byte-swapped into the canonical Windows display form
func TestFormatGUID(t *testing.T) {
	// Packed form of 01020304-0506-0708-090a-0b0c0d0e0f10
	guid := [16]byte{
		0x04, 0x03, 0x02, 0x01,
		0x06, 0x05,
		0x08, 0x07,
		0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10,
	}
	want := "01020304-0506-0708-090a-0b0c0d0e0f10"
	if got := FormatGUID(guid); got != want {
		t.Errorf("FormatGUID() = %q, want %q", got, want)
	}
}

// TestIdentifierKindString tests kind names used in CLI output
func TestIdentifierKindString(t *testing.T) {
	kinds := map[IdentifierKind]string{
		IdentifierNone:      "none",
		IdentifierBuildID:   "build-id",
		IdentifierDebugLink: "debug-link",
		IdentifierUUID:      "uuid",
		IdentifierCodeView:  "codeview",
	}
	for kind, want := range kinds {
		if got := kind.String(); got != want {
			t.Errorf("IdentifierKind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}

// TestResolutionStatusString sanity-checks that every status renders
func TestResolutionStatusString(t *testing.T) {
	statuses := []ResolutionStatus{StatusResolved, StatusNoIdentifier, StatusNoCandidates, StatusNoMatch}
	for _, s := range statuses {
		if strings.TrimSpace(s.String()) == "" || s.String() == "invalid" {
			t.Errorf("status %d has no name", s)
		}
	}
}
