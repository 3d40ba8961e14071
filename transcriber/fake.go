package transcriber

import "context"

// Fake is a Transcriber test double. It records the last call and
// returns canned results.
type Fake struct {
	Text string
	Err  error

	LastPath     string
	LastLanguage string
	Calls        int
}

func NewFake(text string, err error) *Fake {
	return &Fake{Text: text, Err: err}
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Transcribe(_ context.Context, path, _, language string) (string, error) {
	f.Calls++
	f.LastPath = path
	f.LastLanguage = language
	if f.Err != nil {
		return "", f.Err
	}
	return f.Text, nil
}
