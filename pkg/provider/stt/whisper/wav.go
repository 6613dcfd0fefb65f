package whisper

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// readWAV loads a 16-bit PCM WAV file and returns its samples as mono
// float32 in [-1.0, 1.0], the input format whisper.cpp expects.
// Multi-channel files are down-mixed by averaging.
func readWAV(path string) ([]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	return decodeWAV(data)
}

// decodeWAV parses a RIFF/WAVE container. Only uncompressed 16-bit PCM is
// supported; that is what the ffmpeg converter produces.
func decodeWAV(data []byte) ([]float32, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, errors.New("not a RIFF/WAVE file")
	}

	var (
		channels      int
		bitsPerSample int
		haveFmt       bool
		pcm           []byte
	)

	// Walk the chunk list. Chunks are word-aligned: a chunk with an odd
	// size is followed by one padding byte.
	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if size < 0 || body+size > len(data) {
			return nil, fmt.Errorf("truncated %q chunk", id)
		}

		switch id {
		case "fmt ":
			if size < 16 {
				return nil, errors.New("fmt chunk too short")
			}
			audioFormat := int(binary.LittleEndian.Uint16(data[body : body+2]))
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			bitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			if audioFormat != 1 {
				return nil, fmt.Errorf("unsupported audio format %d, want PCM", audioFormat)
			}
			haveFmt = true
		case "data":
			pcm = data[body : body+size]
		}

		off = body + size
		if size%2 == 1 {
			off++
		}
	}

	if !haveFmt {
		return nil, errors.New("missing fmt chunk")
	}
	if pcm == nil {
		return nil, errors.New("missing data chunk")
	}
	if bitsPerSample != 16 {
		return nil, fmt.Errorf("unsupported bit depth %d, want 16", bitsPerSample)
	}
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count %d", channels)
	}

	return pcmToFloat32Mono(pcm, channels), nil
}

// pcmToFloat32Mono converts 16-bit signed little-endian PCM to mono float32
// samples normalised to [-1.0, 1.0], averaging all channels per frame. Any
// trailing partial frame is ignored.
func pcmToFloat32Mono(pcm []byte, channels int) []float32 {
	if channels <= 1 {
		n := len(pcm) / 2
		samples := make([]float32, n)
		for i := range n {
			sample := int16(binary.LittleEndian.Uint16(pcm[i*2 : i*2+2]))
			samples[i] = float32(sample) / 32768.0
		}
		return samples
	}

	frames := len(pcm) / (2 * channels)
	mono := make([]float32, frames)
	for i := range frames {
		var sum float32
		for ch := range channels {
			idx := (i*channels + ch) * 2
			sample := int16(binary.LittleEndian.Uint16(pcm[idx : idx+2]))
			sum += float32(sample) / 32768.0
		}
		mono[i] = sum / float32(channels)
	}
	return mono
}
