package mdx

import (
	"bytes"
	"errors"
	"testing"

	mdxerrors "github.com/FocuswithJustin/mdxkit/core/errors"
	"github.com/FocuswithJustin/mdxkit/core/wire"
)

func TestTrackEncoding(t *testing.T) {
	tests := []struct {
		name     string
		track    *Track[float32]
		wantSize int
	}{
		{
			name:     "linear",
			track:    &Track[float32]{Interpolation: InterpolationLinear, GlobalSequenceID: NoGlobalSequence, Keys: []Key[float32]{{Frame: 0, Value: 1}, {Frame: 10, Value: 2}}},
			wantSize: 12 + 2*8,
		},
		{
			name:     "hermite carries tangents",
			track:    &Track[float32]{Interpolation: InterpolationHermite, Keys: []Key[float32]{{Frame: 5, Value: 1, InTan: 0.5, OutTan: 1.5}}},
			wantSize: 12 + 16,
		},
		{
			name:     "empty",
			track:    &Track[float32]{Interpolation: InterpolationNone, Keys: []Key[float32]{}},
			wantSize: 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := wire.NewBuffer(0)
			if err := floatValues.writeTrack(b, tt.track); err != nil {
				t.Fatalf("writeTrack() error = %v", err)
			}
			if b.Len() != tt.wantSize {
				t.Errorf("encoded %d bytes, want %d", b.Len(), tt.wantSize)
			}

			r := wire.NewReader(b.Bytes())
			got, err := floatValues.readTrack(r)
			if err != nil {
				t.Fatalf("readTrack() error = %v", err)
			}
			if !r.Empty() {
				t.Errorf("%d bytes left unread", r.Len())
			}
			again := wire.NewBuffer(0)
			_ = floatValues.writeTrack(again, got)
			if !bytes.Equal(again.Bytes(), b.Bytes()) {
				t.Error("re-encoded track differs")
			}
			if got.GlobalSequenceID != tt.track.GlobalSequenceID || len(got.Keys) != len(tt.track.Keys) {
				t.Errorf("readTrack() = %+v, want %+v", got, tt.track)
			}
		})
	}
}

func TestTrackErrors(t *testing.T) {
	le := func(vs ...uint32) []byte {
		b := wire.NewBuffer(0)
		b.WriteUint32s(vs...)
		return b.Bytes()
	}

	t.Run("interpolation out of range", func(t *testing.T) {
		_, err := floatValues.readTrack(wire.NewReader(le(0, 4, 0)))
		if !errors.Is(err, mdxerrors.ErrUnknownEnum) {
			t.Errorf("error = %v, want unknown enum", err)
		}
	})

	t.Run("key count past input", func(t *testing.T) {
		_, err := vec3Values.readTrack(wire.NewReader(le(1000, 1, 0)))
		if !errors.Is(err, mdxerrors.ErrIncomplete) {
			t.Errorf("error = %v, want incomplete", err)
		}
	})
}

func TestInterpolation(t *testing.T) {
	if InterpolationLinear.HasTangents() || !InterpolationBezier.HasTangents() {
		t.Error("only hermite and bezier carry tangents")
	}
	if got := InterpolationHermite.String(); got != "hermite" {
		t.Errorf("String() = %q", got)
	}
	if got := Interpolation(9).String(); got != "unknown" {
		t.Errorf("String() = %q", got)
	}
}

func TestCollisionShapeLayout(t *testing.T) {
	tests := []struct {
		shape ShapeType
		want  int
	}{
		{ShapeCube, 24},
		{ShapePlane, 24},
		{ShapeSphere, 16},
		{ShapeCylinder, 28},
	}

	for _, tt := range tests {
		c := CollisionShape{Type: tt.shape}
		if tt.shape.hasRadius() {
			c.Radius = 2
		}
		b := wire.NewBuffer(0)
		if err := c.Encode(b, wire.NoVersion); err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		// node: size, name, three u32; then the type
		if got := b.Len() - (4 + NameWidth + 12) - 4; got != tt.want {
			t.Errorf("shape %d geometry = %d bytes, want %d", tt.shape, got, tt.want)
		}
	}
}

func TestCollisionShapeUnstoredFields(t *testing.T) {
	sphere := CollisionShape{Type: ShapeSphere, Vertices: [2]Vec3{{1, 2, 3}}, Radius: 5}
	b := wire.NewBuffer(0)
	if err := sphere.Encode(b, wire.NoVersion); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	var back CollisionShape
	if err := back.Decode(wire.NewReader(b.Bytes()), wire.NoVersion); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if back.Vertices != sphere.Vertices || back.Radius != sphere.Radius {
		t.Errorf("decoded %v r=%v, want %v r=%v", back.Vertices, back.Radius, sphere.Vertices, sphere.Radius)
	}

	tests := []struct {
		name  string
		shape CollisionShape
	}{
		{"sphere second vertex", CollisionShape{Type: ShapeSphere, Vertices: [2]Vec3{{1, 2, 3}, {4, 5, 6}}}},
		{"cube radius", CollisionShape{Type: ShapeCube, Radius: 1}},
		{"plane radius", CollisionShape{Type: ShapePlane, Radius: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.shape.Encode(wire.NewBuffer(0), wire.NoVersion)
			if !errors.Is(err, mdxerrors.ErrInvalidInput) {
				t.Errorf("Encode() error = %v, want a validation error", err)
			}
		})
	}
}
