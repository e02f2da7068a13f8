package lemac

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/go-lemac/lemacd/internal/errorcodes"
)

func zeros(n int) []byte { return make([]byte, n) }

func sequential(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}

	return b
}

// TestTagDeterministic checks invariant 1: repeated calls with identical
// inputs produce identical tags.
func TestTagDeterministic(t *testing.T) {
	t.Parallel()

	key, nonce := zeros(16), zeros(16)
	msg := sequential(40)

	a, err := Tag(key, nonce, msg, V1)
	if err != nil {
		t.Fatalf("Tag() error = %v", err)
	}
	b, err := Tag(key, nonce, msg, V1)
	if err != nil {
		t.Fatalf("Tag() error = %v", err)
	}
	if a != b {
		t.Fatalf("Tag() not deterministic: %x != %x", a, b)
	}
}

// TestEmptyVsOneBlockMessage checks scenario 2: an empty message and a
// single zero block must tag differently for both LeMac versions.
func TestEmptyVsOneBlockMessage(t *testing.T) {
	t.Parallel()

	key, nonce := zeros(16), zeros(16)

	for _, version := range []int{V0, V1} {
		empty, err := Tag(key, nonce, nil, version)
		if err != nil {
			t.Fatalf("Tag(empty) error = %v", err)
		}
		oneBlock, err := Tag(key, nonce, zeros(16), version)
		if err != nil {
			t.Fatalf("Tag(one block) error = %v", err)
		}
		if empty == oneBlock {
			t.Fatalf("version %d: empty and one-block messages produced the same tag", version)
		}
	}
}

// TestVersionDivergence checks scenario 5: v0 and v1 disagree on the same
// input, since v1 inserts one extra delay stage into the feedback register.
func TestVersionDivergence(t *testing.T) {
	t.Parallel()

	key, nonce := zeros(16), zeros(16)
	msg := zeros(16)

	v0, err := Tag(key, nonce, msg, V0)
	if err != nil {
		t.Fatalf("Tag(v0) error = %v", err)
	}
	v1, err := Tag(key, nonce, msg, V1)
	if err != nil {
		t.Fatalf("Tag(v1) error = %v", err)
	}
	if v0 == v1 {
		t.Fatalf("lemac v0 and v1 produced the same tag for the same input")
	}
}

// TestPaddingBoundary checks scenario 4: messages of length chunk-1, chunk,
// and chunk+1 must all tag differently under both versions.
func TestPaddingBoundary(t *testing.T) {
	t.Parallel()

	key, nonce := sequential(16), sequential(16)

	for _, version := range []int{V0, V1} {
		under := sequential(ChunkSize - 1)
		exact := sequential(ChunkSize)
		over := sequential(ChunkSize + 1)

		tUnder, err := Tag(key, nonce, under, version)
		if err != nil {
			t.Fatalf("Tag(under) error = %v", err)
		}
		tExact, err := Tag(key, nonce, exact, version)
		if err != nil {
			t.Fatalf("Tag(exact) error = %v", err)
		}
		tOver, err := Tag(key, nonce, over, version)
		if err != nil {
			t.Fatalf("Tag(over) error = %v", err)
		}

		if tUnder == tExact || tExact == tOver || tUnder == tOver {
			t.Fatalf(
				"version %d: padding boundary tags collided: under=%x exact=%x over=%x",
				version, tUnder, tExact, tOver,
			)
		}
	}
}

// TestPaddingDisambiguation checks invariant 3: a message and that same
// message with the padding bytes appended explicitly must still tag
// differently, since the explicit form gets its own trailing padding too.
func TestPaddingDisambiguation(t *testing.T) {
	t.Parallel()

	key, nonce := zeros(16), zeros(16)
	m := sequential(10)
	mPadLike := append(bytes.Clone(m), 0x01)
	mPadLike = append(mPadLike, zeros(ChunkSize-len(mPadLike))...)

	a, err := Tag(key, nonce, m, V1)
	if err != nil {
		t.Fatalf("Tag() error = %v", err)
	}
	b, err := Tag(key, nonce, mPadLike, V1)
	if err != nil {
		t.Fatalf("Tag() error = %v", err)
	}
	if a == b {
		t.Fatalf("message and its padded-lookalike produced the same tag")
	}
}

// TestInvalidInputsRejected checks §7: malformed key/nonce/version are
// rejected before any state is allocated.
func TestInvalidInputsRejected(t *testing.T) {
	t.Parallel()

	key16, nonce16 := zeros(16), zeros(16)

	if _, err := Tag(zeros(15), nonce16, nil, V1); err != errorcodes.ErrInvalidKeyLength {
		t.Errorf("short key: got err = %v, want %v", err, errorcodes.ErrInvalidKeyLength)
	}
	if _, err := Tag(key16, zeros(17), nil, V1); err != errorcodes.ErrInvalidNonceLength {
		t.Errorf("long nonce: got err = %v, want %v", err, errorcodes.ErrInvalidNonceLength)
	}
	if _, err := Tag(key16, nonce16, nil, 2); err != errorcodes.ErrUnsupportedVersion {
		t.Errorf("bad version: got err = %v, want %v", err, errorcodes.ErrUnsupportedVersion)
	}
}

// TestScheduleReuseMatchesDirectCall checks that caching the subkey
// schedule (the precomputation the design notes recommend) never changes
// the result.
func TestScheduleReuseMatchesDirectCall(t *testing.T) {
	t.Parallel()

	key := sequential(16)
	sched, err := DeriveSchedule(key)
	if err != nil {
		t.Fatalf("DeriveSchedule() error = %v", err)
	}

	for _, msg := range [][]byte{nil, zeros(16), sequential(65)} {
		direct, err := Tag(key, sequential(16), msg, V1)
		if err != nil {
			t.Fatalf("Tag() error = %v", err)
		}
		viaSchedule, err := TagWithSchedule(sched, sequential(16), msg, V1)
		if err != nil {
			t.Fatalf("TagWithSchedule() error = %v", err)
		}
		if direct != viaSchedule {
			t.Fatalf("cached schedule diverged from direct call: %x != %x", viaSchedule, direct)
		}
	}
}

// TestKnownAnswerVectors checks scenarios 1 and 3 against tags produced by
// the Python reference implementation (_examples/original_source/
// lemac_petitmac.py), not merely against another Go call, so a
// consistent-but-wrong permutation of the UHF feedback registers or lane
// schedule would be caught even though it would pass every other test in
// this file.
func TestKnownAnswerVectors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		key     []byte
		nonce   []byte
		message []byte
		version int
		want    string
	}{
		{
			name:    "scenario1 v1 zero key/nonce empty message",
			key:     zeros(16),
			nonce:   zeros(16),
			message: nil,
			version: V1,
			want:    "52282e853c9cfeb5537d33fb916a341f",
		},
		{
			name:    "scenario1 v0 zero key/nonce empty message",
			key:     zeros(16),
			nonce:   zeros(16),
			message: nil,
			version: V0,
			want:    "d93e95c08ef1f63264d925c3210112b7",
		},
		{
			name:    "scenario3 v1 sequential key/nonce 65-byte message",
			key:     sequential(16),
			nonce:   sequential(16),
			message: sequential(65),
			version: V1,
			want:    "d58dfdbe8b0224e1d5106ac4d775beef",
		},
		{
			name:    "scenario3 v0 sequential key/nonce 65-byte message",
			key:     sequential(16),
			nonce:   sequential(16),
			message: sequential(65),
			version: V0,
			want:    "21d650c1e6ef1bdce57a79e54ef4bbde",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Tag(tt.key, tt.nonce, tt.message, tt.version)
			if err != nil {
				t.Fatalf("Tag() error = %v", err)
			}
			if hex.EncodeToString(got[:]) != tt.want {
				t.Fatalf("Tag() = %x, want %s", got, tt.want)
			}
		})
	}
}

// TestLengthFuzz checks determinism across message lengths 0, 7, ..., 252,
// varying key and nonce with the length.
func TestLengthFuzz(t *testing.T) {
	t.Parallel()

	for l := 0; l < 256; l += 7 {
		key := sequential(16)
		key[0] = byte(l)
		nonce := sequential(16)
		nonce[1] = byte(l)
		msg := sequential(l)

		a, err := Tag(key, nonce, msg, V1)
		if err != nil {
			t.Fatalf("length %d: Tag() error = %v", l, err)
		}
		b, err := Tag(key, nonce, msg, V1)
		if err != nil {
			t.Fatalf("length %d: Tag() error = %v", l, err)
		}
		if a != b {
			t.Fatalf("length %d: non-deterministic tag", l)
		}
	}
}
