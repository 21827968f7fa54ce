package markdown

import (
	"strings"
	"testing"
)

type panicRenderer struct{}

func (panicRenderer) Render(string) (string, error) {
	panic("boom")
}

func TestSafeRender_RecoversFromRendererPanic(t *testing.T) {
	const renderWidth = 20

	rendererMu.Lock()
	prev, hadPrev := renderers[renderWidth]
	renderers[renderWidth] = panicRenderer{}
	rendererMu.Unlock()

	defer func() {
		rendererMu.Lock()
		if hadPrev {
			renderers[renderWidth] = prev
		} else {
			delete(renderers, renderWidth)
		}
		rendererMu.Unlock()
	}()

	out := SafeRender(renderWidth, 0, []byte("hello\n"))
	if string(out) != "hello" {
		t.Fatalf("expected fallback to original markdown, got %q", string(out))
	}
}

func TestRenderBlankInput(t *testing.T) {
	for _, input := range []string{"", "\n\n", "  \r\n"} {
		if out := Render(40, 2, []byte(input)); out != nil {
			t.Errorf("Render(%q) = %q, want nil", input, out)
		}
	}
}

func TestRenderIndentsEveryLine(t *testing.T) {
	out := string(Render(40, 4, []byte("Pick up **oat** milk\n\n- store\n- bakery\n")))
	if out == "" {
		t.Fatalf("expected rendered output")
	}
	for _, line := range strings.Split(out, "\n") {
		if line != "" && !strings.HasPrefix(line, "    ") {
			t.Fatalf("expected indent on %q in:\n%s", line, out)
		}
	}
	for _, want := range []string{"oat", "- store", "- bakery"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}
