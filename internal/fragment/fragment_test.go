package fragment

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleJS = `(function() {var implementors = {
"mistralrs_core":[{"text":"impl Debug for <a class=\"struct\" href=\"mistralrs_core/struct.ChatTemplate.html\" title=\"struct ChatTemplate\">ChatTemplate</a>","synthetic":false,"types":["mistralrs_core::pipeline::ChatTemplate"]}],
"mistralrs_lora":[{"text":"impl Debug for LoraConfig","synthetic":false,"types":["mistralrs_lora::LoraConfig"]},{"text":"impl Debug for Ordering","synthetic":true,"types":["mistralrs_lora::Ordering"]}]
};
if (window.register_implementors) {window.register_implementors(implementors);} else {(window.pending_implementors = implementors);}
})()`

const sampleJSON = `{"libA":[{"text":"impl Debug for A","synthetic":false,"types":["libA::A"]}]}`

func TestParseJSFragment(t *testing.T) {
	m, err := Parse([]byte(sampleJS))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(m) != 2 {
		t.Fatalf("components=%d, want 2", len(m))
	}
	core := m["mistralrs_core"]
	if len(core) != 1 {
		t.Fatalf("mistralrs_core entries=%d, want 1", len(core))
	}
	// Braces and escaped quotes inside entry text must not break extraction.
	if !strings.Contains(core[0].Text, `href="mistralrs_core/struct.ChatTemplate.html"`) {
		t.Fatalf("text mangled: %q", core[0].Text)
	}
	lora := m["mistralrs_lora"]
	if len(lora) != 2 {
		t.Fatalf("mistralrs_lora entries=%d, want 2", len(lora))
	}
	if !lora[1].Synthetic {
		t.Fatalf("second lora entry should be synthetic")
	}
	if lora[0].Types[0] != "mistralrs_lora::LoraConfig" {
		t.Fatalf("types=%v", lora[0].Types)
	}
}

func TestParseBareJSON(t *testing.T) {
	m, err := Parse([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(m["libA"]) != 1 || m["libA"][0].Text != "impl Debug for A" {
		t.Fatalf("unexpected map: %+v", m)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"no assignment":       `(function() {var other = {};})()`,
		"unterminated object": `var implementors = {"a":[`,
		"bad json":            `{"a": [}`,
	}
	for name, src := range cases {
		if _, err := Parse([]byte(src)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadFileDispatch(t *testing.T) {
	dir := t.TempDir()
	js := filepath.Join(dir, "trait.Debug.js")
	if err := os.WriteFile(js, []byte(sampleJS), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := LoadFile(js)
	if err != nil {
		t.Fatalf("load js: %v", err)
	}
	if f.Name != "trait.Debug.js" || len(f.Map) != 2 {
		t.Fatalf("unexpected fragment: %+v", f)
	}

	bad := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(bad, []byte("hi"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(bad); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestLoadDirFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b.json":         sampleJSON,
		"a.js":           sampleJS,
		"readme.md":      "ignored",
		"trait.Send.txt": "ignored",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	frags, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	if len(frags) != 2 {
		t.Fatalf("fragments=%d, want 2", len(frags))
	}
	if frags[0].Name != "a.js" || frags[1].Name != "b.json" {
		t.Fatalf("order=%s,%s", frags[0].Name, frags[1].Name)
	}
}

func TestLoadDirParseErrorSurfacesFilename(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := LoadDir(dir)
	if err == nil || !strings.Contains(err.Error(), "broken.json") {
		t.Fatalf("error should name the file, got %v", err)
	}
}
