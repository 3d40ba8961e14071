// Package audio holds wav file helpers: materializing uploaded audio to
// temp files and sanity-checking recordings before they are shipped to
// a transcription API.
package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
)

const WAVHeaderSize = 44

// SaveBase64Temp decodes a base64 audio payload and writes it under the
// OS temp dir with the given file name, returning the absolute path.
func SaveBase64Temp(data, fileName string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return "", fmt.Errorf("decode base64 audio: %w", err)
	}
	path := filepath.Join(os.TempDir(), fileName)
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return "", fmt.Errorf("write audio file: %w", err)
	}
	return path, nil
}

// ValidateWAV checks that the file carries a plausible RIFF/WAVE header.
// arecord killed mid-write can leave a header with no sample data.
func ValidateWAV(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	header := make([]byte, WAVHeaderSize)
	if _, err := io.ReadFull(f, header); err != nil {
		return fmt.Errorf("wav file too short: %w", err)
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return fmt.Errorf("not a wav file: %s", path)
	}
	return nil
}

// RMS returns the root-mean-square level of the 16-bit PCM samples in
// the wav file, normalized to [0, 1].
func RMS(path string) (float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read wav: %w", err)
	}
	if len(raw) <= WAVHeaderSize {
		return 0, nil
	}
	samples := raw[WAVHeaderSize:]

	var sum float64
	n := 0
	for i := 0; i+1 < len(samples); i += 2 {
		s := float64(int16(binary.LittleEndian.Uint16(samples[i:]))) / 32768.0
		sum += s * s
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return math.Sqrt(sum / float64(n)), nil
}

// SilenceRMS is the level below which a recording is treated as silent.
// Ambient room noise on typical mics sits well above this.
const SilenceRMS = 0.003

// IsSilence reports whether the recording contains no usable signal.
func IsSilence(path string) (bool, error) {
	rms, err := RMS(path)
	if err != nil {
		return false, err
	}
	return rms < SilenceRMS, nil
}
