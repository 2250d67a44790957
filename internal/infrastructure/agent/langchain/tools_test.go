package langchain

import (
	"context"
	"errors"
	"strings"
	"testing"

	"bro/internal/application/port/output"
)

type fakeSession struct {
	navigated []string
	current   string
	pageText  string
	navErr    error
	textErr   error
}

func (s *fakeSession) Navigate(ctx context.Context, url string) error {
	if s.navErr != nil {
		return s.navErr
	}
	s.navigated = append(s.navigated, url)
	s.current = url
	return nil
}

func (s *fakeSession) PageText(ctx context.Context) (string, error) {
	if s.textErr != nil {
		return "", s.textErr
	}
	return s.pageText, nil
}

func (s *fakeSession) CurrentURL() string { return s.current }

func (s *fakeSession) Close() {}

type nopLogger struct{}

func (l nopLogger) Debug(msg string, args ...any) {}
func (l nopLogger) Info(msg string, args ...any)  {}
func (l nopLogger) Warn(msg string, args ...any)  {}
func (l nopLogger) Error(msg string, args ...any) {}

func (l nopLogger) WithField(key string, value any) output.LoggerPort  { return l }
func (l nopLogger) WithFields(fields map[string]any) output.LoggerPort { return l }

func (l nopLogger) Close() error { return nil }

func TestNavigateTool_RecordsStepAndURL(t *testing.T) {
	session := &fakeSession{}
	tr := &trace{}
	tool := &navigateTool{session: session, trace: tr, logger: nopLogger{}}

	obs, err := tool.Call(context.Background(), "https://example.com/page")
	if err != nil {
		t.Fatalf("tool call returned error: %v", err)
	}
	if !strings.Contains(obs, "Navigated to") {
		t.Errorf("unexpected observation: %q", obs)
	}

	urls, steps := tr.snapshot()
	if steps != 1 {
		t.Errorf("expected 1 step, got %d", steps)
	}
	if len(urls) != 1 || urls[0] != "https://example.com/page" {
		t.Errorf("URL not recorded: %v", urls)
	}
}

func TestNavigateTool_PrefixesScheme(t *testing.T) {
	session := &fakeSession{}
	tool := &navigateTool{session: session, trace: &trace{}, logger: nopLogger{}}

	if _, err := tool.Call(context.Background(), `"example.com"`); err != nil {
		t.Fatal(err)
	}
	if len(session.navigated) != 1 || session.navigated[0] != "https://example.com" {
		t.Errorf("scheme not prefixed: %v", session.navigated)
	}
}

func TestNavigateTool_ErrorBecomesObservation(t *testing.T) {
	session := &fakeSession{navErr: errors.New("net::ERR_NAME_NOT_RESOLVED")}
	tr := &trace{}
	tool := &navigateTool{session: session, trace: tr, logger: nopLogger{}}

	obs, err := tool.Call(context.Background(), "https://no.such.host")
	if err != nil {
		t.Fatalf("navigation failures must surface as observations, not errors: %v", err)
	}
	if !strings.HasPrefix(obs, "Error:") {
		t.Errorf("expected error observation, got %q", obs)
	}

	urls, steps := tr.snapshot()
	if len(urls) != 0 {
		t.Errorf("failed navigation must not record a URL: %v", urls)
	}
	if steps != 1 {
		t.Errorf("the attempt still counts as a step, got %d", steps)
	}
}

func TestNavigateTool_EmptyInput(t *testing.T) {
	tool := &navigateTool{session: &fakeSession{}, trace: &trace{}, logger: nopLogger{}}

	obs, err := tool.Call(context.Background(), "   ")
	if err != nil {
		t.Fatal(err)
	}
	if obs != "Error: empty url" {
		t.Errorf("unexpected observation: %q", obs)
	}
}

func TestReadPageTool_TruncatesLongPages(t *testing.T) {
	session := &fakeSession{pageText: strings.Repeat("x", maxObservationLen+500)}
	tool := &readPageTool{session: session, trace: &trace{}, logger: nopLogger{}}

	obs, err := tool.Call(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(obs, "(truncated)") {
		t.Error("expected truncation marker")
	}
	if len(obs) > maxObservationLen+len("\n... (truncated)") {
		t.Errorf("observation of %d bytes exceeds cap", len(obs))
	}
}

func TestTrace_SnapshotIsACopy(t *testing.T) {
	tr := &trace{}
	tr.recordURL("https://a.example")
	tr.recordStep()

	urls, _ := tr.snapshot()
	urls[0] = "mutated"

	again, steps := tr.snapshot()
	if again[0] != "https://a.example" {
		t.Error("snapshot must not share backing storage")
	}
	if steps != 1 {
		t.Errorf("expected 1 step, got %d", steps)
	}
}
