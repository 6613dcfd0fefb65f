package whisper

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// buildWAV assembles a minimal RIFF/WAVE file around the given 16-bit PCM
// payload.
func buildWAV(t *testing.T, audioFormat, channels, bitsPerSample int, pcm []byte) []byte {
	t.Helper()

	var fmtChunk bytes.Buffer
	binary.Write(&fmtChunk, binary.LittleEndian, uint16(audioFormat))
	binary.Write(&fmtChunk, binary.LittleEndian, uint16(channels))
	binary.Write(&fmtChunk, binary.LittleEndian, uint32(16000))                            // sample rate
	binary.Write(&fmtChunk, binary.LittleEndian, uint32(16000*channels*bitsPerSample/8)) // byte rate
	binary.Write(&fmtChunk, binary.LittleEndian, uint16(channels*bitsPerSample/8))       // block align
	binary.Write(&fmtChunk, binary.LittleEndian, uint16(bitsPerSample))

	var body bytes.Buffer
	body.WriteString("WAVE")
	body.WriteString("fmt ")
	binary.Write(&body, binary.LittleEndian, uint32(fmtChunk.Len()))
	body.Write(fmtChunk.Bytes())
	body.WriteString("data")
	binary.Write(&body, binary.LittleEndian, uint32(len(pcm)))
	body.Write(pcm)

	var out bytes.Buffer
	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

func pcm16(samples ...int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func TestDecodeWAV_Mono(t *testing.T) {
	t.Parallel()

	wav := buildWAV(t, 1, 1, 16, pcm16(0, 16384, -16384, 32767))
	got, err := decodeWAV(wav)
	if err != nil {
		t.Fatalf("decodeWAV: %v", err)
	}

	want := []float32{0, 0.5, -0.5, 32767.0 / 32768.0}
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if math.Abs(float64(got[i]-want[i])) > 1e-6 {
			t.Errorf("sample %d = %f, want %f", i, got[i], want[i])
		}
	}
}

func TestDecodeWAV_StereoDownmix(t *testing.T) {
	t.Parallel()

	// Two frames: (L=16384, R=-16384) → 0, (L=16384, R=16384) → 0.5.
	wav := buildWAV(t, 1, 2, 16, pcm16(16384, -16384, 16384, 16384))
	got, err := decodeWAV(wav)
	if err != nil {
		t.Fatalf("decodeWAV: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d samples, want 2", len(got))
	}
	if math.Abs(float64(got[0])) > 1e-6 || math.Abs(float64(got[1]-0.5)) > 1e-6 {
		t.Errorf("downmix = %v, want [0, 0.5]", got)
	}
}

func TestDecodeWAV_Rejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not riff", []byte("JUNKxxxxWAVE")},
		{"float format", buildWAV(t, 3, 1, 16, pcm16(0))},
		{"8-bit depth", buildWAV(t, 1, 1, 8, []byte{0x80})},
		{"truncated chunk", append(buildWAV(t, 1, 1, 16, pcm16(0, 0))[:20], 0xFF)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if _, err := decodeWAV(tc.data); err == nil {
				t.Error("decodeWAV succeeded, want error")
			}
		})
	}
}

func TestReadWAV_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := readWAV(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Error("readWAV of missing file succeeded, want error")
	}
}

func TestReadWAV_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := os.WriteFile(path, buildWAV(t, 1, 1, 16, pcm16(100, 200, 300)), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := readWAV(path)
	if err != nil {
		t.Fatalf("readWAV: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("got %d samples, want 3", len(got))
	}
}
