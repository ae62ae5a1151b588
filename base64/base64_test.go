package base64

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	xrand "golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"github.com/ericlagergren/swar/lane"
)

const stdTable = "ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz" +
	"0123456789" +
	"+/"

// TestSextet tests that sextet is a bijection between stdTable
// and [0, 63].
func TestSextet(t *testing.T) {
	var seen [64]bool
	for i := 0; i < len(stdTable); i++ {
		s, ok := sextet(stdTable[i])
		if !ok {
			t.Fatalf("#%d: %q rejected", i, stdTable[i])
		}
		if s != byte(i) {
			t.Fatalf("#%d: expected %d, got %d", i, i, s)
		}
		if seen[s] {
			t.Fatalf("#%d: %d seen twice", i, s)
		}
		seen[s] = true
	}

	var n int
	for i := 0; i < 256; i++ {
		if _, ok := sextet(byte(i)); ok {
			n++
		}
	}
	if n != len(stdTable) {
		t.Fatalf("expected %d valid bytes, got %d", len(stdTable), n)
	}
}

func TestRevLookup(t *testing.T) {
	for i := 0; i < 256; i++ {
		want, ok := sextet(byte(i))
		switch got := revLookup(uint(i)); {
		case ok && got != want:
			t.Fatalf("#%d: expected %d got %d", i, want, got)
		case !ok && got != 0xff:
			t.Fatalf("#%d: got %#2x", i, got)
		}
	}
}

// TestDecodeGroupSextets tests decodeGroup with every possible
// single-character group.
func TestDecodeGroupSextets(t *testing.T) {
	for i := 0; i < 256; i++ {
		c := byte(i)
		want, wantOK := sextet(c)

		ascii := lane.IfThenElse(lane.FirstN(1), lane.Set(c), fill)
		got, ok := decodeGroup(ascii)
		if ok != wantOK {
			t.Fatalf("%q: expected %t, got %t", c, wantOK, ok)
		}
		if !ok {
			continue
		}
		if b := got.Data()[0]; b != want<<2 {
			t.Fatalf("%q: expected %#2x, got %#2x", c, want<<2, b)
		}
	}
}

func TestDecode(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
		want []byte
	}{
		// 26 26 26 26 -> 011010 011010 011010 011010
		//             -> 01101001 10100110 10011010
		{"full", "aaaa", []byte{105, 166, 154}},
		{"one", "a", []byte{104}},
		{"two", "aa", []byte{105}},
		{"three", "AaA", []byte{1, 160}},
		{"twoGroups", "aaaaaaaa", []byte{105, 166, 154, 105, 166, 154}},
		{"bounds", "Zz9/", []byte{0x67, 0x3f, 0x7f}},
		{"symbols", "+/+/", []byte{0xfb, 0xff, 0xbf}},
		{"lower", "AAAA", []byte{0, 0, 0}},
		{"empty", "", nil},
		{"pad1", "aaa=", []byte{105, 166}},
		{"pad2", "aa==", []byte{105}},
		{"onlyPad1", "=", nil},
		{"onlyPad2", "==", nil},
		// Padding is only stripped, never validated.
		{"extraPad", "aaaa=", []byte{105, 166, 154}},
		{"shortPad", "a==", []byte{104}},
	} {
		for _, e := range Encodings() {
			t.Run(tc.name+"/"+e.String(), func(t *testing.T) {
				got, err := e.AppendDecode(nil, []byte(tc.in))
				if err != nil {
					t.Fatalf("%q: %v", tc.in, err)
				}
				if !bytes.Equal(tc.want, got) {
					t.Fatalf("%q: mismatch: %s", tc.in, cmp.Diff(tc.want, got))
				}
			})
		}
	}
}

func TestDecodeString(t *testing.T) {
	for _, e := range Encodings() {
		got, err := e.DecodeString("jhgsdf6234hsdf")
		if err != nil {
			t.Fatalf("%s: %v", e, err)
		}
		want, err := Scalar.DecodeString("jhgsdf6234hsdf")
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(want, got) {
			t.Fatalf("%s: mismatch: %s", e, cmp.Diff(want, got))
		}
	}
}

// TestGroupLength tests that groups of 1, 2, 3, and 4
// characters produce 1, 1, 2, and 3 bytes.
func TestGroupLength(t *testing.T) {
	want := []int{0, 1, 1, 2, 3}
	for n := 0; n <= 4; n++ {
		if got := groupLen(n); got != want[n] {
			t.Fatalf("groupLen(%d): expected %d, got %d", n, want[n], got)
		}
		for _, e := range Encodings() {
			src := bytes.Repeat([]byte{'Q'}, n)
			got, err := e.AppendDecode(nil, src)
			if err != nil {
				t.Fatalf("%s: %q: %v", e, src, err)
			}
			if len(got) != want[n] {
				t.Fatalf("%s: %q: expected %d bytes, got %d", e, src, want[n], len(got))
			}
		}
	}

	for n := 0; n < 64; n++ {
		exp := n/4*3 + want[n%4]
		if got := DecodedLen(n); got != exp {
			t.Fatalf("DecodedLen(%d): expected %d, got %d", n, exp, got)
		}
	}
}

var stdlibs = []struct {
	name string
	enc  *base64.Encoding
}{
	{"StdEncoding", base64.StdEncoding},
	{"RawStdEncoding", base64.RawStdEncoding},
}

// TestDecodeStdlib tests every Encoding against data encoded by
// encoding/base64, with and without padding.
func TestDecodeStdlib(t *testing.T) {
	src := make([]byte, 2048)
	if _, err := rand.Read(src); err != nil {
		t.Fatal(err)
	}
	for _, s := range stdlibs {
		for _, e := range Encodings() {
			t.Run(s.name+"/"+e.String(), func(t *testing.T) {
				for i := range src {
					want := src[:i]
					got, err := e.AppendDecode(nil, []byte(s.enc.EncodeToString(want)))
					if err != nil {
						t.Fatalf("#%d: %v", i, err)
					}
					if !bytes.Equal(want, got) {
						t.Fatalf("#%d: mismatch: %s", i, cmp.Diff(want, got))
					}
				}
			})
		}
	}
}

// randomInput returns a random string of alphabet characters,
// including lengths that are not a multiple of four, followed
// by zero, one, or two '='.
func randomInput(rng *xrand.Rand) []byte {
	src := make([]byte, rng.Intn(64))
	for i := range src {
		src[i] = stdTable[rng.Intn(len(stdTable))]
	}
	for n := rng.Intn(3); n > 0; n-- {
		src = append(src, '=')
	}
	return src
}

// TestEquivalence tests that every Encoding decodes random
// valid input exactly like Scalar.
func TestEquivalence(t *testing.T) {
	d := 2 * time.Second
	if testing.Short() {
		d = 100 * time.Millisecond
	}
	tm := time.NewTimer(d)

	seed := uint64(time.Now().UnixNano())
	t.Logf("seed: %#x", seed)
	rng := xrand.New(xrand.NewSource(seed))

	for i := 0; ; i++ {
		select {
		case <-tm.C:
			t.Logf("iter: %d", i)
			return
		default:
		}

		src := randomInput(rng)
		want, err := AppendDecodeScalar(nil, src)
		if err != nil {
			t.Fatalf("#%d: %q: %v", i, src, err)
		}
		for _, e := range Encodings()[1:] {
			got, err := e.AppendDecode(nil, src)
			if err != nil {
				t.Fatalf("#%d: %s: %q: %v", i, e, src, err)
			}
			if !bytes.Equal(want, got) {
				t.Fatalf("#%d: %s: %q: mismatch: %s", i, e, src, cmp.Diff(want, got))
			}
		}
	}
}

// TestReject tests that every invalid byte is rejected at every
// position in a group.
func TestReject(t *testing.T) {
	for _, e := range Encodings() {
		for i := 0; i < 256; i++ {
			c := byte(i)
			if _, ok := sextet(c); ok {
				continue
			}
			for p := 0; p < 8; p++ {
				// The trailing group keeps '=' away from the end.
				src := []byte("QUJDQUJDQUJD")
				src[p] = c
				_, err := e.AppendDecode(nil, src)
				if !errors.Is(err, ErrInvalidByte) {
					t.Fatalf("%s: %q: expected ErrInvalidByte, got %v", e, src, err)
				}
			}
			if c == '=' {
				continue
			}
			// Short trailing groups.
			for n := 1; n <= 4; n++ {
				src := append([]byte("QUJD"), bytes.Repeat([]byte{c}, n)...)
				_, err := e.AppendDecode(nil, src)
				if !errors.Is(err, ErrInvalidByte) {
					t.Fatalf("%s: %q: expected ErrInvalidByte, got %v", e, src, err)
				}
			}
		}
	}

	for _, e := range Encodings() {
		for _, s := range []string{"!", "===", "a=aa", "aa\naa", "QUJD=QUJD"} {
			if _, err := e.DecodeString(s); !errors.Is(err, ErrInvalidByte) {
				t.Fatalf("%s: %q: expected ErrInvalidByte, got %v", e, s, err)
			}
		}
	}
}

// TestRejectRandom tests that every Encoding rejects exactly
// the inputs that Scalar rejects.
func TestRejectRandom(t *testing.T) {
	d := 2 * time.Second
	if testing.Short() {
		d = 100 * time.Millisecond
	}
	tm := time.NewTimer(d)

	seed := uint64(time.Now().UnixNano())
	t.Logf("seed: %#x", seed)
	rng := xrand.New(xrand.NewSource(seed))

	for i := 0; ; i++ {
		select {
		case <-tm.C:
			t.Logf("iter: %d", i)
			return
		default:
		}

		src := randomInput(rng)
		if len(src) > 0 && rng.Intn(2) == 0 {
			src[rng.Intn(len(src))] = byte(rng.Intn(256))
		}
		_, want := AppendDecodeScalar(nil, src)
		for _, e := range Encodings()[1:] {
			_, err := e.AppendDecode(nil, src)
			if (want == nil) != (err == nil) {
				t.Fatalf("#%d: %s: %q: expected %v, got %v", i, e, src, want, err)
			}
		}
	}
}

func TestErrors(t *testing.T) {
	src := []byte("QUJD!UJD")

	_, err := AppendDecodeScalar(nil, src)
	var ibe InvalidByteError
	if !errors.As(err, &ibe) {
		t.Fatalf("expected InvalidByteError, got %T", err)
	}
	if ibe != '!' {
		t.Fatalf("expected %q, got %q", '!', byte(ibe))
	}
	if got, want := err.Error(), "base64: invalid byte: U+0021 '!'"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	_, err = AppendDecodeVector(nil, src)
	var cge CorruptGroupError
	if !errors.As(err, &cge) {
		t.Fatalf("expected CorruptGroupError, got %T", err)
	}
	if cge != 4 {
		t.Fatalf("expected offset 4, got %d", cge)
	}
	if got, want := err.Error(), "base64: invalid byte in group at offset 4"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	_, err = AppendDecodeBranchless(nil, src)
	if err != ErrInvalidByte {
		t.Fatalf("expected ErrInvalidByte, got %v", err)
	}
}

// TestPartial tests that groups decoded before an error are
// kept.
func TestPartial(t *testing.T) {
	src := []byte("aaaa!aaaaaaa")
	want := []byte{105, 166, 154}
	for _, fn := range []func(dst, src []byte) ([]byte, error){
		AppendDecodeScalar,
		AppendDecodeVector,
	} {
		got, err := fn(nil, src)
		if err == nil {
			t.Fatal("expected an error")
		}
		if !bytes.Equal(want, got) {
			t.Fatalf("mismatch: %s", cmp.Diff(want, got))
		}
	}

	// Branchless decodes everything.
	got, err := AppendDecodeBranchless(nil, src)
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(got) != 9 {
		t.Fatalf("expected 9 bytes, got %d", len(got))
	}
	if !bytes.Equal(got[:3], want) || !bytes.Equal(got[6:], want) {
		t.Fatalf("mismatch: %x", got)
	}
}

func TestAppend(t *testing.T) {
	for _, e := range Encodings() {
		dst := []byte("prefix")
		got, err := e.AppendDecode(dst, []byte("aaaa"))
		if err != nil {
			t.Fatalf("%s: %v", e, err)
		}
		want := []byte("prefix\x69\xa6\x9a")
		if !bytes.Equal(want, got) {
			t.Fatalf("%s: mismatch: %s", e, cmp.Diff(want, got))
		}
	}
}

// TestPure tests that decoding the same input twice produces
// the same output.
func TestPure(t *testing.T) {
	src := []byte("jhgsdf6234hsdf==")
	for _, e := range Encodings() {
		a, err := e.AppendDecode(nil, src)
		if err != nil {
			t.Fatalf("%s: %v", e, err)
		}
		b, err := e.AppendDecode(nil, src)
		if err != nil {
			t.Fatalf("%s: %v", e, err)
		}
		if !bytes.Equal(a, b) {
			t.Fatalf("%s: mismatch: %s", e, cmp.Diff(a, b))
		}
	}
}

func TestConcurrent(t *testing.T) {
	src := make([]byte, 4096)
	if _, err := rand.Read(src); err != nil {
		t.Fatal(err)
	}
	encoded := []byte(base64.StdEncoding.EncodeToString(src))

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		for _, e := range Encodings() {
			e := e
			g.Go(func() error {
				got, err := e.AppendDecode(make([]byte, 0, len(src)), encoded)
				if err != nil {
					return err
				}
				if !bytes.Equal(src, got) {
					return errors.New(e.String() + ": mismatch")
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestLookup(t *testing.T) {
	for _, e := range Encodings() {
		got, ok := Lookup(e.String())
		if !ok || got != e {
			t.Fatalf("Lookup(%q): expected %v, got %v", e, e, got)
		}
	}
	if _, ok := Lookup("url"); ok {
		t.Fatal("expected Lookup to fail")
	}
}

var sinkBuf []byte

func BenchmarkDecode(b *testing.B) {
	long := make([]byte, 4096)
	if _, err := rand.Read(long); err != nil {
		b.Fatal(err)
	}
	inputs := []struct {
		name string
		src  []byte
	}{
		{"aaaa", []byte("aaaa")},
		{"4KiB", []byte(base64.StdEncoding.EncodeToString(long))},
	}
	for _, in := range inputs {
		for _, e := range Encodings() {
			b.Run(in.name+"/"+e.String(), func(b *testing.B) {
				b.SetBytes(int64(len(in.src)))
				buf := make([]byte, 0, DecodedLen(len(in.src)))
				for i := 0; i < b.N; i++ {
					var err error
					sinkBuf, err = e.AppendDecode(buf[:0], in.src)
					if err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
