// Package wav decodes 16-bit PCM WAV files into float32 samples.
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Format describes the fmt chunk of a PCM WAV file.
type Format struct {
	Channels      int
	SampleRate    int
	BitsPerSample int
}

// ReadFile decodes a 16-bit PCM WAV file and returns mono samples in
// [-1, 1]. Multi-channel audio is averaged down to mono.
func ReadFile(path string) ([]float32, Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Format{}, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads a RIFF/WAVE stream. Only uncompressed 16-bit PCM is
// supported; unknown chunks are skipped.
func Decode(r io.Reader) ([]float32, Format, error) {
	var header [12]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, Format{}, fmt.Errorf("wav header: %w", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return nil, Format{}, errors.New("wav header: not a RIFF/WAVE stream")
	}

	var format Format
	haveFormat := false
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, format, errors.New("wav: missing data chunk")
			}
			return nil, format, fmt.Errorf("wav chunk: %w", err)
		}
		id := string(chunk[0:4])
		size := int64(binary.LittleEndian.Uint32(chunk[4:8]))
		switch id {
		case "fmt ":
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return nil, format, fmt.Errorf("wav fmt chunk: %w", err)
			}
			if len(body) < 16 {
				return nil, format, errors.New("wav fmt chunk: too short")
			}
			if audioFormat := binary.LittleEndian.Uint16(body[0:2]); audioFormat != 1 {
				return nil, format, fmt.Errorf("wav: unsupported audio format %d", audioFormat)
			}
			format = Format{
				Channels:      int(binary.LittleEndian.Uint16(body[2:4])),
				SampleRate:    int(binary.LittleEndian.Uint32(body[4:8])),
				BitsPerSample: int(binary.LittleEndian.Uint16(body[14:16])),
			}
			if format.BitsPerSample != 16 || format.Channels <= 0 {
				return nil, format, fmt.Errorf("wav: unsupported layout %d-bit %dch", format.BitsPerSample, format.Channels)
			}
			haveFormat = true
			if size%2 == 1 {
				if _, err := io.CopyN(io.Discard, r, 1); err != nil {
					return nil, format, fmt.Errorf("wav fmt padding: %w", err)
				}
			}
		case "data":
			if !haveFormat {
				return nil, format, errors.New("wav: data chunk before fmt chunk")
			}
			data, err := io.ReadAll(io.LimitReader(r, size))
			if err != nil {
				return nil, format, fmt.Errorf("wav data chunk: %w", err)
			}
			return toMono(data, format.Channels), format, nil
		default:
			if _, err := io.CopyN(io.Discard, r, size+size%2); err != nil {
				return nil, format, fmt.Errorf("wav skip %q chunk: %w", id, err)
			}
		}
	}
}

func toMono(pcm []byte, channels int) []float32 {
	frameBytes := 2 * channels
	frames := len(pcm) / frameBytes
	out := make([]float32, frames)
	for i := range frames {
		var sum float32
		for ch := range channels {
			off := i*frameBytes + ch*2
			sum += float32(int16(binary.LittleEndian.Uint16(pcm[off:off+2]))) / 32768.0
		}
		out[i] = sum / float32(channels)
	}
	return out
}
