// Package doctor runs environment diagnostics: everything voxtap needs
// from the host system, checked one by one with a PASS/FAIL verdict.
package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"voxtap/audio"
	"voxtap/clipboard"
	"voxtap/recorder"
	"voxtap/settings"
)

// Run executes the diagnostic checks and returns an exit code
// (0=all pass, 1=any fail).
func Run(captureBinary, dbPath string) int {
	fmt.Println("voxtap doctor - system diagnostics")
	fmt.Println("==================================")

	allPass := true

	if !checkCaptureBinary(captureBinary) {
		allPass = false
	}
	if !checkSettingsDB(dbPath) {
		allPass = false
	}
	if !checkAPIKey(dbPath) {
		allPass = false
	}
	if allPass && !checkCapture(captureBinary) {
		allPass = false
	}
	if !checkClipboard() {
		allPass = false
	}

	fmt.Println()
	if allPass {
		fmt.Println("All checks passed!")
		return 0
	}
	fmt.Println("Some checks failed. See details above.")
	return 1
}

func checkCaptureBinary(binary string) bool {
	fmt.Println()
	fmt.Println("[1/5] Capture utility")

	path, err := exec.LookPath(binary)
	if err != nil {
		fmt.Printf("  FAIL: %s not found in PATH: %v\n", binary, err)
		return false
	}
	fmt.Printf("  PASS: %s\n", path)
	return true
}

func checkSettingsDB(dbPath string) bool {
	fmt.Println()
	fmt.Println("[2/5] Settings database")

	store, err := settings.Open(dbPath)
	if err != nil {
		fmt.Printf("  FAIL: cannot open %s: %v\n", dbPath, err)
		return false
	}
	defer store.Close()

	if err := store.SetValue("doctor_probe", time.Now().Format(time.RFC3339)); err != nil {
		fmt.Printf("  FAIL: cannot write: %v\n", err)
		return false
	}
	fmt.Printf("  PASS: %s is writable\n", dbPath)
	return true
}

func checkAPIKey(dbPath string) bool {
	fmt.Println()
	fmt.Println("[3/5] API key")

	if os.Getenv("MISTRAL_API_KEY") != "" {
		fmt.Println("  PASS: MISTRAL_API_KEY is set")
		return true
	}
	if store, err := settings.Open(dbPath); err == nil {
		defer store.Close()
		if st, err := store.Get(); err == nil && st.APIKey != "" {
			fmt.Println("  PASS: api key found in settings")
			return true
		}
	}
	fmt.Println("  FAIL: no api key (set MISTRAL_API_KEY or run voxtap -set-key)")
	return false
}

func checkCapture(binary string) bool {
	fmt.Println()
	fmt.Println("[4/5] Microphone capture (1 second)")

	rec := recorder.New(recorder.Config{Binary: binary})
	path, err := rec.Start()
	if err != nil {
		fmt.Printf("  FAIL: cannot start capture: %v\n", err)
		return false
	}
	time.Sleep(1 * time.Second)

	stopped, err := rec.Stop()
	if err != nil {
		fmt.Printf("  FAIL: capture produced no audio: %v\n", err)
		return false
	}
	defer os.Remove(stopped)

	if err := audio.ValidateWAV(stopped); err != nil {
		fmt.Printf("  FAIL: %v\n", err)
		return false
	}
	if silent, err := audio.IsSilence(stopped); err == nil && silent {
		fmt.Println("  WARN: capture works but the signal is silent (muted mic?)")
	} else {
		fmt.Printf("  PASS: captured %s\n", path)
	}
	return true
}

func checkClipboard() bool {
	fmt.Println()
	fmt.Println("[5/5] Clipboard")

	probe := fmt.Sprintf("voxtap-doctor-%d", time.Now().UnixNano())
	if err := clipboard.Copy(probe); err != nil {
		fmt.Printf("  FAIL: cannot write clipboard: %v\n", err)
		return false
	}
	got, err := clipboard.Read()
	if err != nil {
		fmt.Printf("  FAIL: cannot read clipboard: %v\n", err)
		return false
	}
	if got != probe {
		fmt.Printf("  FAIL: clipboard round-trip mismatch: got %q\n", got)
		return false
	}
	fmt.Println("  PASS: clipboard round-trip works")
	return true
}
