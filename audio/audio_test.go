package audio

import (
	"encoding/base64"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// writeWAV generates a 16 kHz mono 16-bit wav file with the given
// samples.
func writeWAV(t *testing.T, samples []int16) string {
	t.Helper()
	dataSize := len(samples) * 2
	buf := make([]byte, WAVHeaderSize+dataSize)
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(WAVHeaderSize-8+dataSize))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1) // mono
	binary.LittleEndian.PutUint32(buf[24:28], 16000)
	binary.LittleEndian.PutUint32(buf[28:32], 16000*2)
	binary.LittleEndian.PutUint16(buf[32:34], 2)  // block align
	binary.LittleEndian.PutUint16(buf[34:36], 16) // bits per sample
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[WAVHeaderSize+i*2:], uint16(s))
	}

	path := filepath.Join(t.TempDir(), "test.wav")
	if err := os.WriteFile(path, buf, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func toneSamples(n int, amplitude float64) []int16 {
	samples := make([]int16, n)
	for i := range samples {
		samples[i] = int16(amplitude * 32767 * math.Sin(2*math.Pi*440*float64(i)/16000))
	}
	return samples
}

func TestSaveBase64Temp(t *testing.T) {
	payload := []byte("RIFF fake audio bytes")
	encoded := base64.StdEncoding.EncodeToString(payload)

	path, err := SaveBase64Temp(encoded, "voxtap_test_upload.wav")
	if err != nil {
		t.Fatalf("SaveBase64Temp: %v", err)
	}
	t.Cleanup(func() { os.Remove(path) })

	if !filepath.IsAbs(path) {
		t.Errorf("path %q is not absolute", path)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(payload) {
		t.Errorf("file content = %q, want %q", got, payload)
	}
}

func TestSaveBase64TempBadPayload(t *testing.T) {
	if _, err := SaveBase64Temp("not!!!base64???", "x.wav"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestValidateWAV(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		path := writeWAV(t, toneSamples(1600, 0.5))
		if err := ValidateWAV(path); err != nil {
			t.Errorf("ValidateWAV: %v", err)
		}
	})
	t.Run("not wav", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "junk.wav")
		if err := os.WriteFile(path, make([]byte, 100), 0644); err != nil {
			t.Fatal(err)
		}
		if err := ValidateWAV(path); err == nil {
			t.Error("expected error for non-wav content")
		}
	})
	t.Run("truncated", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "short.wav")
		if err := os.WriteFile(path, []byte("RIFF"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := ValidateWAV(path); err == nil {
			t.Error("expected error for truncated header")
		}
	})
}

func TestIsSilence(t *testing.T) {
	t.Run("silent", func(t *testing.T) {
		path := writeWAV(t, make([]int16, 16000))
		silent, err := IsSilence(path)
		if err != nil {
			t.Fatalf("IsSilence: %v", err)
		}
		if !silent {
			t.Error("all-zero samples reported as speech")
		}
	})
	t.Run("tone", func(t *testing.T) {
		path := writeWAV(t, toneSamples(16000, 0.5))
		silent, err := IsSilence(path)
		if err != nil {
			t.Fatalf("IsSilence: %v", err)
		}
		if silent {
			t.Error("loud tone reported as silence")
		}
	})
}

func TestRMSLevels(t *testing.T) {
	quiet := writeWAV(t, toneSamples(16000, 0.01))
	loud := writeWAV(t, toneSamples(16000, 0.8))

	quietRMS, err := RMS(quiet)
	if err != nil {
		t.Fatal(err)
	}
	loudRMS, err := RMS(loud)
	if err != nil {
		t.Fatal(err)
	}
	if loudRMS <= quietRMS {
		t.Errorf("loud rms %f <= quiet rms %f", loudRMS, quietRMS)
	}
}
