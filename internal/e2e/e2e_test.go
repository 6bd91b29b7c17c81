package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"implidx/internal/fragment"
	"implidx/internal/httpapi"
	"implidx/internal/index"
	"implidx/internal/registry"
	"implidx/pkg/types"
)

const coreFragment = `(function() {var implementors = {
"mistralrs_core":[{"text":"impl Debug for ChatTemplate","synthetic":false,"types":["mistralrs_core::pipeline::ChatTemplate"]}]
};
if (window.register_implementors) {window.register_implementors(implementors);} else {(window.pending_implementors = implementors);}
})()`

const loraFragment = `{"mistralrs_lora":[{"text":"impl Debug for LoraConfig","synthetic":false,"types":["mistralrs_lora::LoraConfig"]},{"text":"impl Debug for Ordering","synthetic":true,"types":["mistralrs_lora::Ordering"]}]}`

// bootStack wires registry, index and HTTP mux the way the daemon does.
func bootStack(t *testing.T, fragDir string, deferBind bool) (*httptest.Server, *index.Index) {
	t.Helper()
	reg := registry.New()
	ix := index.New(index.Config{RequireRegistration: fragDir != ""})

	publish := func() {
		frags, err := fragment.LoadDir(fragDir)
		if err != nil {
			t.Fatalf("load fragments: %v", err)
		}
		for _, f := range frags {
			reg.Publish(f.Map)
		}
	}

	if deferBind {
		if fragDir != "" {
			publish()
		}
		ix.Bind(reg)
	} else {
		ix.Bind(reg)
		if fragDir != "" {
			publish()
		}
	}

	srv := httptest.NewServer(httpapi.NewMux(ix, reg))
	t.Cleanup(srv.Close)
	return srv, ix
}

func writeFragments(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestServeFragmentsEndToEnd(t *testing.T) {
	dir := writeFragments(t, map[string]string{
		"trait.Debug.core.js": coreFragment,
		"lora.json":           loraFragment,
	})
	srv, _ := bootStack(t, dir, false)

	var comps types.ComponentsResponse
	if code := getJSON(t, srv.URL+"/components", &comps); code != http.StatusOK {
		t.Fatalf("components=%d", code)
	}
	want := []string{"mistralrs_core", "mistralrs_lora"}
	if len(comps.Components) != 2 || comps.Components[0] != want[0] || comps.Components[1] != want[1] {
		t.Fatalf("components=%v", comps.Components)
	}

	var impls types.ImplementorsResponse
	if code := getJSON(t, srv.URL+"/implementors/mistralrs_lora", &impls); code != http.StatusOK {
		t.Fatalf("implementors=%d", code)
	}
	if len(impls.Implementors) != 2 || !impls.Implementors[1].Synthetic {
		t.Fatalf("implementors=%+v", impls.Implementors)
	}

	if code := getJSON(t, srv.URL+"/implementors/unknown", nil); code != http.StatusNotFound {
		t.Fatalf("unknown component=%d", code)
	}

	if code := getJSON(t, srv.URL+"/readyz", nil); code != http.StatusOK {
		t.Fatalf("readyz=%d", code)
	}

	var st types.StatusResponse
	if code := getJSON(t, srv.URL+"/status", &st); code != http.StatusOK {
		t.Fatalf("status=%d", code)
	}
	if st.Components != 2 || st.Entries != 3 || st.Registrations != 2 {
		t.Fatalf("status=%+v", st)
	}
}

func TestDeferredBindSingleFragmentEquivalence(t *testing.T) {
	dir := writeFragments(t, map[string]string{"trait.Debug.core.js": coreFragment})

	direct, _ := bootStack(t, dir, false)
	deferred, _ := bootStack(t, dir, true)

	var a, b types.ComponentsResponse
	getJSON(t, direct.URL+"/components", &a)
	getJSON(t, deferred.URL+"/components", &b)
	if len(a.Components) != 1 || len(b.Components) != 1 || a.Components[0] != b.Components[0] {
		t.Fatalf("bind order changed the index: direct=%v deferred=%v", a.Components, b.Components)
	}
}

func TestDeferredBindKeepsOnlyLastFragment(t *testing.T) {
	// With no registrar bound, each publish overwrites the pending slot, so
	// only the last fragment (sorted by filename) survives the drain.
	dir := writeFragments(t, map[string]string{
		"a.core.js":   coreFragment,
		"b.lora.json": loraFragment,
	})
	srv, _ := bootStack(t, dir, true)

	var comps types.ComponentsResponse
	getJSON(t, srv.URL+"/components", &comps)
	if len(comps.Components) != 1 || comps.Components[0] != "mistralrs_lora" {
		t.Fatalf("pending slot must be last-writer-wins, got %v", comps.Components)
	}
}

func TestHTTPPublishFlowsThroughRegistry(t *testing.T) {
	srv, ix := bootStack(t, "", false)

	payload := `{"extra_crate":[{"text":"impl Debug for Extra","synthetic":false,"types":["extra_crate::Extra"]}]}`
	resp, err := http.Post(srv.URL+"/implementors", "application/json", bytes.NewBufferString(payload))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("publish=%d", resp.StatusCode)
	}
	var ack types.PublishResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if ack.Mode != "direct" || ack.Components != 1 {
		t.Fatalf("ack=%+v", ack)
	}
	if _, err := ix.Implementors("extra_crate"); err != nil {
		t.Fatalf("published component missing from index: %v", err)
	}
}
